package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xtractor/xtractor/internal/config"
	"github.com/xtractor/xtractor/internal/core"
	"github.com/xtractor/xtractor/internal/core/store"
	errwrap "github.com/xtractor/xtractor/internal/errors"
	"github.com/xtractor/xtractor/internal/observability"
	"github.com/xtractor/xtractor/internal/output"
)

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if strings.TrimSpace(args[0]) == "" {
		ExitWithCode(observability.CLILogger, foundry.ExitFailure, "Cannot process input",
			errwrap.NewInvalidInputError("input path is empty"))
		return nil
	}

	cfg := config.GetConfig()
	if cfg == nil {
		ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Configuration not loaded",
			errwrap.NewConfigInvalidError("configuration not loaded"))
		return nil
	}

	report, err := extract(ctx, cfg, args[0], cmd.OutOrStdout(), observability.CLILogger)
	if err != nil {
		env := errwrap.WrapInputError(ctx, args[0], err)
		ExitWithCode(observability.CLILogger, errwrap.ExitCode(env), "Cannot process input", env)
		return nil
	}

	if report.Failed() {
		ExitWithCode(observability.CLILogger, foundry.ExitFailure, "One or more documents failed", nil)
	}
	return nil
}

// runOptions maps configuration onto runner options.
func runOptions(cfg *config.Config) core.Options {
	return core.Options{
		ExtractMedia:    cfg.Media.Extract,
		MediaDir:        cfg.Media.Directory,
		ListMedia:       cfg.Media.List,
		PreservePaths:   cfg.Media.PreservePaths,
		FailFast:        cfg.Batch.FailFast,
		MediaPrefix:     cfg.Media.Prefix,
		MediaExtensions: cfg.Media.Extensions,
		MaxEntryBytes:   cfg.Media.MaxEntryBytes,
	}
}

// extract runs the pipeline for path, printing the report to out. The
// returned error only covers an unusable input path.
func extract(ctx context.Context, cfg *config.Config, path string, out io.Writer, logger *logging.Logger) (*core.BatchReport, error) {
	presenter := output.NewPresenter(out)
	runner := core.NewRunner(runOptions(cfg), presenter, logger)

	report, err := runner.Run(ctx, path)
	if err != nil {
		return nil, err
	}
	ctx = errwrap.WithRunID(ctx, report.ID)

	for _, f := range report.Files {
		if f.Status == core.StatusFailed && f.Err != nil {
			errwrap.Log(logger, errwrap.FromDocumentError(ctx, f.Path, f.Err))
		}
	}

	if report.Directory {
		presenter.Summary(report)
	}

	if cfg.Store.Enabled {
		recordRun(ctx, cfg.Store, report, logger)
	}
	return report, nil
}

// recordRun stores report in the scan history. Failures are logged and do
// not change the outcome of the run.
func recordRun(ctx context.Context, storeCfg config.StoreConfig, report *core.BatchReport, logger *logging.Logger) {
	s, err := store.Open(ctx, storeCfg)
	if err != nil {
		errwrap.Log(logger, errwrap.WrapStoreFailed(ctx, err, "scan history unavailable"))
		return
	}
	defer s.Close() // nolint:errcheck // best-effort close after write

	if err := s.RecordRun(ctx, report); err != nil {
		errwrap.Log(logger, errwrap.WrapStoreFailed(ctx, err, "scan run not recorded"))
		return
	}
	if logger != nil {
		logger.Debug("scan run recorded",
			zap.String("run_id", report.ID),
			zap.String("driver", s.Driver()),
			zap.Int("files", len(report.Files)))
	}
}
