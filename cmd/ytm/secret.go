package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/acastel/ytm-tracker/internal/config"
)

type secretCmd struct {
	genKey  bool
	encrypt string
	key     string
}

func (*secretCmd) Name() string     { return "secret" }
func (*secretCmd) Synopsis() string { return "generate a secret key or encrypt a provider credential" }
func (*secretCmd) Usage() string {
	return `ytm secret -genkey | -encrypt <value> [-key <key>]

  Provider credentials such as the Sycomore session cookie are stored
  encrypted. -genkey prints a fresh key for YTM_SECRET_KEY; -encrypt
  prints the token to put in the environment.
`
}

func (c *secretCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.genKey, "genkey", false, "generate and print a new secret key")
	f.StringVar(&c.encrypt, "encrypt", "", "value to encrypt with the secret key")
	f.StringVar(&c.key, "key", "", "secret key to encrypt with (default: YTM_SECRET_KEY)")
}

func (c *secretCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.genKey == (c.encrypt != "") {
		fmt.Fprintln(os.Stderr, "either -genkey or -encrypt must be provided")
		return subcommands.ExitUsageError
	}

	if c.genKey {
		key, err := config.GenerateSecretKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Println(key)
		return subcommands.ExitSuccess
	}

	key := c.key
	if key == "" {
		key = os.Getenv("YTM_SECRET_KEY")
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "a secret key is required, pass -key or set YTM_SECRET_KEY")
		return subcommands.ExitUsageError
	}

	token, err := config.EncryptSecret(key, c.encrypt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}
