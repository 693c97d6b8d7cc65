package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xtractor/xtractor/internal/config"
	"github.com/xtractor/xtractor/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display version, runtime and resolved configuration information.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := observability.CLILogger
		version := crucible.GetVersion()

		log.Info("=== " + binaryName() + " environment ===")
		log.Info("Application:")
		log.Info("  Version:    " + versionInfo.Version)
		log.Info("  Commit:     " + versionInfo.Commit)
		log.Info("  Built:      " + versionInfo.BuildDate)
		log.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		log.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))

		log.Info("Runtime:")
		log.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		log.Info("  GOOS/ARCH:  "+runtime.GOOS+"/"+runtime.GOARCH, zap.String("goos", runtime.GOOS), zap.String("goarch", runtime.GOARCH))

		cfg := config.GetConfig()
		if cfg == nil {
			log.Warn("Configuration not loaded")
			return
		}

		configFile := viper.ConfigFileUsed()
		if configFile == "" {
			configFile = config.DefaultConfigPath() + " (not present)"
		}

		log.Info("Configuration:")
		log.Info("  Config File:     " + configFile)
		log.Info("  Log Level:       "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		log.Info("  Log Profile:     "+cfg.Logging.Profile, zap.String("log_profile", cfg.Logging.Profile))
		log.Info("  Media Prefix:    "+cfg.Media.Prefix, zap.String("media_prefix", cfg.Media.Prefix))
		log.Info("  Media Types:     "+strings.Join(cfg.Media.Extensions, ", "), zap.Strings("media_extensions", cfg.Media.Extensions))
		log.Info(fmt.Sprintf("  Max Entry Bytes: %d", cfg.Media.MaxEntryBytes), zap.Int64("max_entry_bytes", cfg.Media.MaxEntryBytes))
		log.Info(fmt.Sprintf("  Preserve Paths:  %t", cfg.Media.PreservePaths))
		log.Info(fmt.Sprintf("  Fail Fast:       %t", cfg.Batch.FailFast))
		log.Info(fmt.Sprintf("  History Enabled: %t", cfg.Store.Enabled), zap.Bool("store_enabled", cfg.Store.Enabled))
		if strings.TrimSpace(cfg.Store.URL) != "" {
			log.Info("  History URL:     "+cfg.Store.URL, zap.String("db_url", cfg.Store.URL))
		} else {
			log.Info("  History Path:    "+cfg.Store.Path, zap.String("db_path", cfg.Store.Path))
		}
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}
