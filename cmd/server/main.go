// Package main implements the scry-decks server binary: the HTTP server
// and the database migration commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configFile string
}

func (o *rootOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configFile, "config", "c", "",
		"path to a config file (default: ./config.yaml when present)")
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "scry-decks",
		Short:         "Spaced repetition flashcards for language decks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.addFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd(opts), newMigrateCmd(opts))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
