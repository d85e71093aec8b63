package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/acastel/ytm-tracker/internal/dashboard"
)

type dashboardCmd struct {
	outDir string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "regenerate the static dashboard pages" }
func (*dashboardCmd) Usage() string {
	return `ytm dashboard [-out <dir>]

  Renders one HTML page per recorded report month plus index.html with
  the latest value for every fund.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outDir, "out", "", "output directory (default: DASHBOARD_DIR)")
}

func (c *dashboardCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	outDir := c.outDir
	if outDir == "" {
		outDir = a.cfg.Dashboard.Dir
	}

	generator := dashboard.NewGenerator(a.observations(), outDir, dashboard.DefaultColors(), a.log)
	files, err := generator.GenerateAll()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	for _, name := range files {
		fmt.Println(name)
	}
	fmt.Printf("\nGenerated %d dashboard files in %s\n", len(files), outDir)
	return subcommands.ExitSuccess
}
