package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
	"github.com/acastel/ytm-tracker/internal/service"
)

type extractCmd struct {
	period  string
	fundID  string
	force   bool
	dryRun  bool
	timeout time.Duration
}

func (*extractCmd) Name() string     { return "extract" }
func (*extractCmd) Synopsis() string { return "extract and store each fund's yield for one month" }
func (*extractCmd) Usage() string {
	return `ytm extract [-period <YYYY-MM>] [-fund <id>] [-force] [-dry-run]

  Runs the extraction pipeline over the configured funds and stores one
  observation per fund for the report month. Without -period the month
  before the current one is used. Funds that already have a stored value
  are skipped unless -force is given.
`
}

func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "report month to extract, e.g. 2025-10 (default: previous month)")
	f.StringVar(&c.fundID, "fund", "", "restrict the run to a single fund id")
	f.BoolVar(&c.force, "force", false, "re-extract funds that already have a stored value")
	f.BoolVar(&c.dryRun, "dry-run", false, "extract and report without persisting anything")
	f.DurationVar(&c.timeout, "timeout", 0, "per-fund time budget (default 2m)")
}

func (c *extractCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts := service.RunOptions{
		FundID:  c.fundID,
		Force:   c.force,
		DryRun:  c.dryRun,
		Timeout: c.timeout,
	}
	if c.period != "" {
		p, err := period.Parse(c.period)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		opts.Period = p
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	extraction, err := a.extraction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	summary, err := extraction.Run(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extraction aborted: %v\n", err)
		return subcommands.ExitFailure
	}

	printSummary(summary)

	if summary.Failed == len(summary.Results) && summary.Failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printSummary(summary model.RunSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FUND\tSTATUS\tYTM\tPERIOD\tERROR")
	for _, r := range summary.Results {
		value := "-"
		if r.Status == model.RunOK {
			value = fmt.Sprintf("%.2f%%", r.YTMPercent)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.FundID, r.Status, value, r.Period, r.Error)
	}
	w.Flush()

	fmt.Printf("\n%s: %d extracted, %d skipped, %d failed (%s)\n",
		summary.Target, summary.Succeeded, summary.Skipped, summary.Failed,
		summary.Duration.Round(time.Millisecond))
}
