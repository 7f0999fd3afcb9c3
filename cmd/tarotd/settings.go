package main

import (
	"github.com/spf13/cobra"

	"github.com/randomtoy/tarot-studio/internal/domain"
)

func newSettingsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "settings",
		Short: "Show user settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			newPrinter(cmd.OutOrStdout()).settings(rt.settings.Current(cmd.Context()))
			return nil
		},
	}

	command.AddCommand(newSettingsSetCommand(), newSettingsResetCommand())
	return command
}

func newSettingsSetCommand() *cobra.Command {
	var (
		theme, language, cardSize           string
		probability                         float64
		autoSave, sound, animations, reveal bool
	)

	command := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			var patch domain.SettingsPatch
			if changed("theme") {
				patch.Theme = &theme
			}
			if changed("language") {
				patch.Language = &language
			}
			if changed("card-size") {
				patch.CardSize = &cardSize
			}
			if changed("reversed-probability") {
				patch.ReversedCardProbability = &probability
			}
			if changed("autosave") {
				patch.AutoSave = &autoSave
			}
			if changed("sound") {
				patch.SoundEnabled = &sound
			}
			if changed("animations") {
				patch.AnimationsEnabled = &animations
			}
			if changed("auto-reveal") {
				patch.AutoReveal = &reveal
			}

			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			s, err := rt.settings.Update(cmd.Context(), patch)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).settings(s)
			return nil
		},
	}

	f := command.Flags()
	f.StringVar(&theme, "theme", "", "dark or light")
	f.StringVar(&language, "language", "", "zh or en")
	f.StringVar(&cardSize, "card-size", "", "small, medium or large")
	f.Float64Var(&probability, "reversed-probability", 0, "per-card chance of a reversed card")
	f.BoolVar(&autoSave, "autosave", false, "save every reading to history")
	f.BoolVar(&sound, "sound", false, "enable sound")
	f.BoolVar(&animations, "animations", false, "enable animations")
	f.BoolVar(&reveal, "auto-reveal", false, "reveal cards automatically")
	return command
}

func newSettingsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			s, err := rt.settings.Reset(cmd.Context())
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).settings(s)
			return nil
		},
	}
}
