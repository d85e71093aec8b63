// ytm is the operator CLI: run extraction passes, inspect stored
// observations, backfill values by hand, and regenerate the dashboard.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")

	commander.Register(&extractCmd{}, "pipeline")
	commander.Register(&dashboardCmd{}, "pipeline")

	commander.Register(&fundsCmd{}, "data")
	commander.Register(&latestCmd{}, "data")
	commander.Register(&historyCmd{}, "data")
	commander.Register(&importCmd{}, "data")

	commander.Register(&secretCmd{}, "setup")
	commander.Register(&tokenCmd{}, "setup")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
