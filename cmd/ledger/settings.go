package main

import (
	"fmt"

	"github.com/Veraticus/pocket-ledger/internal/cli"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change application settings",
		Long: `View and change the settings stored with your data: currency, date
format, theme, accent color, autosave, notifications and updates.

Keys: ` + fmt.Sprint(model.SettingKeys()),
	}

	cmd.AddCommand(getSettingCmd())
	cmd.AddCommand(setSettingCmd())
	cmd.AddCommand(resetSettingsCmd())

	return cmd
}

func getSettingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			settings := l.Settings()
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				value, err := settings.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
				return nil
			}

			rows := make([][]string, 0)
			for _, key := range model.SettingKeys() {
				value, err := settings.Get(key)
				if err != nil {
					return err
				}
				rows = append(rows, []string{key, value})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Key", "Value"}, rows))
			return nil
		},
	}
}

func setSettingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			settings, err := l.Settings().Set(args[0], args[1])
			if err != nil {
				return err
			}
			return l.UpdateSettings(cmd.Context(), settings)
		},
	}
}

func resetSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return l.ResetSettings(cmd.Context())
		},
	}
}

func saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write the current data to the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return l.Save(cmd.Context())
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all data",
		Long: `Delete every transaction, category and recurring transaction, reset
the settings and restore the default categories. Export a backup first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			return l.ClearAll(cmd.Context())
		},
	}
}
