package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/acastel/ytm-tracker/internal/api/request"
)

type historyCmd struct {
	from string
	to   string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show every stored yield for one fund" }
func (*historyCmd) Usage() string {
	return `ytm history [-from YYYY-MM] [-to YYYY-MM] <fund-id>

  Shows stored observations for one fund, newest first, optionally limited
  to a period range. Funds removed from the registry keep their history
  readable.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "earliest report period to include")
	f.StringVar(&c.to, "to", "", "latest report period to include")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fundID := f.Arg(0)
	if fundID == "" {
		fmt.Fprintln(os.Stderr, "a fund id is required, see 'ytm funds'")
		return subcommands.ExitUsageError
	}

	filters, err := request.ParseHistoryFilters(c.from, c.to)
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

	history, err := a.observations().GetHistory(fundID, filters.From, filters.To)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(history) == 0 {
		fmt.Printf("No observations recorded for %s yet.\n", fundID)
		return subcommands.ExitSuccess
	}

	fmt.Printf("%s (%s)\n\n", history[0].FundName, history[0].Isin)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tYTM\tSOURCE\tEXTRACTED")
	for _, obs := range history {
		fmt.Fprintf(w, "%s\t%.2f%%\t%s\t%s\n",
			obs.ReportPeriod, obs.YTMPercent, obs.Source, obs.ExtractedAt.Format(time.DateOnly))
	}
	w.Flush()

	return subcommands.ExitSuccess
}
