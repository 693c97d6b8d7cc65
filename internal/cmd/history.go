package cmd

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/xtractor/xtractor/internal/config"
	"github.com/xtractor/xtractor/internal/core/store"
	errwrap "github.com/xtractor/xtractor/internal/errors"
	"github.com/xtractor/xtractor/internal/observability"
	"github.com/xtractor/xtractor/internal/output"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded scan runs",
	Long:  "List runs recorded with --record (or store.enabled), newest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(historyFormat)
		if err != nil {
			return err
		}

		s, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer s.Close() // nolint:errcheck // read-only session

		runs, err := s.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), output.FormatRuns(format, runs))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the documents of one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(historyFormat)
		if err != nil {
			return err
		}

		s, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer s.Close() // nolint:errcheck // read-only session

		run, files, err := s.GetRun(cmd.Context(), args[0])
		if errors.Is(err, store.ErrRunNotFound) {
			ExitWithCode(observability.CLILogger, foundry.ExitFailure, "Unknown run",
				errwrap.WrapInvalidInput(cmd.Context(), err, "no recorded run with id "+args[0]))
			return nil
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), output.FormatRunFiles(format, run, files))
		return nil
	},
}

func openHistory(cmd *cobra.Command) (*store.Store, error) {
	cfg := config.GetConfig()
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	s, err := store.Open(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, errwrap.WrapStoreFailed(cmd.Context(), err, "scan history unavailable")
	}
	return s, nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.PersistentFlags().IntVar(&historyLimit, "limit", store.DefaultListLimit, "maximum number of runs to list")
	historyCmd.PersistentFlags().StringVar(&historyFormat, "format", string(output.FormatTable), "output format: table or markdown")
}
