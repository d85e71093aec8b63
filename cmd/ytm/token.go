package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/acastel/ytm-tracker/internal/api/middleware"
)

type tokenCmd struct {
	key string
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "print a time token for the authenticated API endpoints" }
func (*tokenCmd) Usage() string {
	return `ytm token [-key <api-key>]

  The mutating API endpoints expect an X-API-Key header plus a short-lived
  X-Time-Token header. Prints a fresh token, e.g.

    curl -X POST -H "X-API-Key: $YTM_API_KEY" -H "X-Time-Token: $(ytm token)" \
        http://localhost:5001/api/extract
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.key, "key", "", "API key to sign with (default: YTM_API_KEY)")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key := c.key
	if key == "" {
		key = os.Getenv("YTM_API_KEY")
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "an API key is required, pass -key or set YTM_API_KEY")
		return subcommands.ExitUsageError
	}

	fmt.Println(middleware.GenerateTimeToken(key))
	return subcommands.ExitSuccess
}
