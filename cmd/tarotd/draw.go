package main

import (
	"github.com/spf13/cobra"

	"github.com/randomtoy/tarot-studio/internal/app"
)

type drawFlags struct {
	allowDuplicates     bool
	forceReversed       bool
	forceUpright        bool
	reversedProbability float64
	asJSON              bool
}

func (f *drawFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.allowDuplicates, "allow-duplicates", false, "allow cards already drawn this session")
	cmd.Flags().BoolVar(&f.forceReversed, "reversed", false, "draw every card reversed")
	cmd.Flags().BoolVar(&f.forceUpright, "upright", false, "draw every card upright")
	cmd.Flags().Float64Var(&f.reversedProbability, "reversed-probability", 0, "per-card chance of a reversed card (default from settings)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print JSON")
	cmd.MarkFlagsMutuallyExclusive("reversed", "upright")
}

func (f *drawFlags) forced() *bool {
	switch {
	case f.forceReversed:
		v := true
		return &v
	case f.forceUpright:
		v := false
		return &v
	}
	return nil
}

func (f *drawFlags) probability(cmd *cobra.Command) *float64 {
	if !cmd.Flags().Changed("reversed-probability") {
		return nil
	}
	p := f.reversedProbability
	return &p
}

func newDrawCommand() *cobra.Command {
	var flags drawFlags

	command := &cobra.Command{
		Use:   "draw <spread>",
		Short: "Draw a hand for a spread without interpreting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			p := flags.probability(cmd)
			if p == nil {
				prob := rt.settings.Current(cmd.Context()).ReversedCardProbability
				p = &prob
			}
			res, err := rt.drawing.Draw(args[0], app.DrawOptions{
				AllowDuplicates:     flags.allowDuplicates,
				ForceReversed:       flags.forced(),
				ReversedProbability: p,
			})
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout())
			if flags.asJSON {
				return out.json(res)
			}
			out.spread(res.Spread)
			for i, c := range res.Cards {
				out.card(i, c, res.Spread.Positions[i].Name)
			}
			return nil
		},
	}

	flags.register(command)
	return command
}

func newReadCommand() *cobra.Command {
	var (
		flags    drawFlags
		question string
	)

	command := &cobra.Command{
		Use:   "read <spread>",
		Short: "Draw and interpret a reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			resp, err := rt.tarot.ReadSpread(cmd.Context(), app.ReadSpreadRequest{
				SpreadID:            args[0],
				Question:            question,
				AllowDuplicates:     flags.allowDuplicates,
				ForceReversed:       flags.forced(),
				ReversedProbability: flags.probability(cmd),
			})
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout())
			if flags.asJSON {
				return out.json(resp)
			}
			out.reading(resp.Reading)
			if resp.Saved {
				out.ok("\nSaved to history as %s", resp.Reading.ID)
			}
			return nil
		},
	}

	flags.register(command)
	command.Flags().StringVarP(&question, "question", "q", "", "question to ask the cards")
	return command
}
