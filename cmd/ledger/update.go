package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/pocket-ledger/internal/cli"
	"github.com/Veraticus/pocket-ledger/internal/config"
	"github.com/Veraticus/pocket-ledger/internal/update"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// errReported marks failures the command already printed.
var errReported = errors.New("already reported")

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and install new releases",
		Long: `Check the release feed for a newer version, download it and replace
the running binary. Download and install run the earlier steps as needed.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd, update.StateAvailable)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "download",
		Short: "Download the newest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd, update.StateDownloaded)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Download and install the newest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd, update.StateInstalled)
		},
	})

	return cmd
}

// newUpdateHost builds the release feed host from configuration.
func newUpdateHost() (*update.GitHubHost, error) {
	cfg, err := config.LoadUpdateConfig()
	if err != nil {
		return nil, err
	}
	return update.NewGitHubHost(cfg, version)
}

// runUpdate advances the update flow until target is reached or no newer
// release exists.
func runUpdate(cmd *cobra.Command, target update.State) error {
	ctx := cmd.Context()
	host, err := newUpdateHost()
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	checker := update.NewChecker(host,
		update.WithNotifier(cli.NewPrinter(cmd.OutOrStdout(), false)),
		update.WithOnChange(func(st update.Status) {
			if st.State != update.StateDownloading {
				return
			}
			if bar == nil {
				bar = cli.NewProgressBar(cmd.ErrOrStderr(), 100, "Downloading")
			}
			_ = bar.Set(st.Progress)
		}),
	)

	info, err := checker.Check(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	if info == nil || target == update.StateAvailable {
		return nil
	}

	path, err := checker.Download(ctx)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	slog.Debug("Update downloaded", "path", path)
	if target == update.StateDownloaded {
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	if err := checker.Install(ctx); err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return nil
}
