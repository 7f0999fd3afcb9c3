package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSpreadsCommand() *cobra.Command {
	var asJSON bool

	command := &cobra.Command{
		Use:   "spreads [id]",
		Short: "List spreads, or show the positions of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()
			p := newPrinter(cmd.OutOrStdout())

			if len(args) == 0 {
				spreads := rt.catalog.RecommendedSpreads()
				if asJSON {
					return p.json(spreads)
				}
				for _, sp := range spreads {
					p.spread(sp)
				}
				return nil
			}

			sp, err := rt.catalog.Spread(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return p.json(sp)
			}
			p.spread(sp)
			for i, pos := range sp.Positions {
				fmt.Fprintf(p.w, "%2d. %s: %s\n", i+1, p.label.Sprint(pos.Name), pos.Meaning)
			}
			return nil
		},
	}

	command.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return command
}
