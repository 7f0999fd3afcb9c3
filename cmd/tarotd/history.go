package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randomtoy/tarot-studio/internal/app"
)

func newHistoryCommand() *cobra.Command {
	var asJSON bool

	command := &cobra.Command{
		Use:   "history",
		Short: "List saved readings, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			history := rt.storage.LoadHistory(cmd.Context())
			p := newPrinter(cmd.OutOrStdout())
			if asJSON {
				return p.json(history)
			}
			if len(history) == 0 {
				fmt.Fprintln(p.w, "No saved readings.")
				return nil
			}
			for _, r := range history {
				p.historyLine(r)
			}
			return nil
		},
	}
	command.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	command.AddCommand(
		newHistoryShowCommand(),
		newHistoryDeleteCommand(),
		newHistoryClearCommand(),
		newHistoryExportCommand(),
		newHistoryImportCommand(),
		newHistoryUsageCommand(),
		newHistoryCleanupCommand(),
	)
	return command
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			r, ok := rt.storage.GetReading(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("reading %s not found", args[0])
			}
			newPrinter(cmd.OutOrStdout()).reading(r)
			return nil
		},
	}
}

func newHistoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one saved reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.storage.RemoveReading(cmd.Context(), args[0]); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).ok("Deleted %s", args[0])
			return nil
		},
	}
}

func newHistoryClearCommand() *cobra.Command {
	var yes bool

	command := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.storage.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).ok("History cleared")
			return nil
		},
	}
	command.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return command
}

func newHistoryExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write history and settings as an export file (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			bundle := rt.storage.ExportAll(cmd.Context())
			if len(args) == 0 {
				return newPrinter(cmd.OutOrStdout()).json(bundle)
			}

			raw, err := json.MarshalIndent(bundle, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			if err := os.WriteFile(args[0], raw, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			newPrinter(cmd.OutOrStdout()).ok("Exported %d readings to %s", len(bundle.ReadingHistory), args[0])
			return nil
		},
	}
}

func newHistoryImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import an export file, replacing history and settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			data, err := app.ParseExport(f)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			res := rt.settings.Import(cmd.Context(), data)
			p := newPrinter(cmd.OutOrStdout())
			for _, e := range res.Errors {
				p.warn("%s", e)
			}
			if !res.Success {
				return fmt.Errorf("import finished with %d error(s)", len(res.Errors))
			}
			p.ok("Imported %d readings", len(data.History))
			return nil
		},
	}
}

func newHistoryUsageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show how much storage the app uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			u := rt.storage.StorageUsage(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "%d / %d bytes (%.2f%%), %d readings\n", u.Used, u.Total, u.Percentage, u.ReadingCount)
			return nil
		},
	}
}

func newHistoryCleanupCommand() *cobra.Command {
	var days int

	command := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove readings older than --days (default from config)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			if !cmd.Flags().Changed("days") {
				days = rt.cfg.History.MaxAgeDays
			}
			removed, err := rt.storage.CleanupExpired(cmd.Context(), days)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).ok("Removed %d reading(s) older than %d days", removed, days)
			return nil
		},
	}
	command.Flags().IntVar(&days, "days", 0, "maximum age in days")
	return command
}
