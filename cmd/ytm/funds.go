package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/acastel/ytm-tracker/internal/config"
)

type fundsCmd struct{}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "list the configured funds" }
func (*fundsCmd) Usage() string {
	return `ytm funds

  Lists the fund registry the pipeline works from: one row per configured
  fund with its provider, maturity year, and source type.
`
}

func (*fundsCmd) SetFlags(*flag.FlagSet) {}

func (*fundsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	funds, err := config.Funds()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tMATURITY\tSOURCE\tISIN")
	for _, f := range funds {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			f.ID, f.Name, f.Provider, f.MaturityYear, f.Source, f.Isin)
	}
	w.Flush()

	return subcommands.ExitSuccess
}
