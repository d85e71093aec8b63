package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/acastel/ytm-tracker/internal/api/request"
	"github.com/acastel/ytm-tracker/internal/period"
	"github.com/acastel/ytm-tracker/internal/validation"
)

type importCmd struct {
	fundID string
	period string
	value  float64
	ref    string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "record a manually sourced observation" }
func (*importCmd) Usage() string {
	return `ytm import -fund <id> -period <YYYY-MM> -value <percent> [-ref <document>]

  Records a yield read by hand, for months that predate the automated
  pipeline. A month that already has a stored value is left untouched.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fundID, "fund", "", "configured fund id")
	f.StringVar(&c.period, "period", "", "report month the value describes, e.g. 2025-07")
	f.Float64Var(&c.value, "value", 0, "yield-to-maturity percentage, e.g. 4.60")
	f.StringVar(&c.ref, "ref", "", "where the figure was read from, e.g. a factsheet filename")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := request.ImportObservationRequest{
		FundID:         c.fundID,
		ReportPeriod:   c.period,
		YTMPercent:     c.value,
		SourceDocument: c.ref,
	}
	if err := validation.ValidateImportObservation(req); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	p, err := period.Parse(c.period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	obs, imported, err := a.observations().Import(ctx, c.fundID, p, c.value, c.ref)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !imported {
		fmt.Printf("%s already has a value for %s; leaving it untouched.\n", c.fundID, p)
		return subcommands.ExitSuccess
	}

	fmt.Printf("Recorded %.2f%% for %s at %s.\n", obs.YTMPercent, obs.FundID, obs.ReportPeriod)
	return subcommands.ExitSuccess
}
