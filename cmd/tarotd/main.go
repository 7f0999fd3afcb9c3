package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tarotd",
		Short:         "Tarot drawing, reading and history service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./tarot.yaml or $HOME/.config/tarot/tarot.yaml)")

	root.AddCommand(
		newServeCommand(),
		newSpreadsCommand(),
		newDrawCommand(),
		newReadCommand(),
		newHistoryCommand(),
		newSettingsCommand(),
	)
	return root
}
