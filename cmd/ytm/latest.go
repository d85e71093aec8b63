package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type latestCmd struct{}

func (*latestCmd) Name() string     { return "latest" }
func (*latestCmd) Synopsis() string { return "show the most recent stored yield per fund" }
func (*latestCmd) Usage() string {
	return `ytm latest

  Shows the newest stored observation for every fund, the same view the
  dashboard index page renders.
`
}

func (*latestCmd) SetFlags(*flag.FlagSet) {}

func (*latestCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	observations, err := a.observations().GetLatest()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(observations) == 0 {
		fmt.Println("No observations recorded yet.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FUND\tPROVIDER\tMATURITY\tYTM\tPERIOD\tISIN")
	for _, obs := range observations {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f%%\t%s\t%s\n",
			obs.FundName, obs.Provider, obs.MaturityYear, obs.YTMPercent, obs.ReportPeriod, obs.Isin)
	}
	w.Flush()

	return subcommands.ExitSuccess
}
