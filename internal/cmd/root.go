package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xtractor/xtractor/internal/appid"
	"github.com/xtractor/xtractor/internal/config"
	errwrap "github.com/xtractor/xtractor/internal/errors"
	"github.com/xtractor/xtractor/internal/observability"
)

var (
	cfgFile string
	verbose bool

	// App identity loaded from the embedded app.yaml
	appIdentity *appid.Identity

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// GetAppIdentity returns the loaded app identity (only valid after initConfig)
func GetAppIdentity() *appid.Identity {
	return appIdentity
}

// rootCmd extracts metadata (and optionally media) from one document or
// every document of a directory.
var rootCmd = &cobra.Command{
	// NOTE: initConfig() overwrites Use/Short from app identity.
	Use:   filepath.Base(os.Args[0]) + " [flags] <file or directory>",
	Short: "Office Open XML metadata and media extractor",
	Long: `Print the core and extended document properties of a .docx file, or of every
.docx file directly inside a directory, and count or extract its embedded images.`,
	Example: `  xtractor report.docx
  xtractor -m report.docx
  xtractor -m -d ./images report.docx
  xtractor --fail-fast ./documents`,
	Args:          exactlyOnePath,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtract,
}

// usageError marks command-line mistakes so they exit as invalid
// configuration rather than as a processing failure.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

func asUsageError(cmd *cobra.Command, err error) error {
	return usageError{fmt.Errorf("%w\n\n%s", err, cmd.UsageString())}
}

func exactlyOnePath(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return asUsageError(cmd, err)
	}
	return nil
}

// ExitCodeFor maps an error returned by Execute to an exit code.
func ExitCodeFor(err error) foundry.ExitCode {
	var usage usageError
	if errors.As(err, &usage) {
		return foundry.ExitConfigInvalid
	}
	return foundry.ExitFailure
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Load app identity early for help text (before cobra processes --help)
	if identity, err := appid.Get(context.Background()); err == nil && identity != nil {
		appIdentity = identity
		applyIdentity(identity)
	}

	cobra.OnInitialize(initConfig)
	rootCmd.SetFlagErrorFunc(asUsageError)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/xtractor/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	flags := rootCmd.Flags()
	flags.BoolP("media", "m", false, "extract media files")
	flags.StringP("directory", "d", "", "output directory for extracted media (default: document path without extension)")
	flags.BoolP("list-media", "l", false, "list each media entry with its format and dimensions")
	flags.Bool("fail-fast", false, "stop a directory run at the first failed document")
	flags.Bool("preserve-paths", false, "keep archive folders below the output directory")
	flags.Bool("record", false, "record the run in the scan history")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("media.extract", flags.Lookup("media"))
	_ = viper.BindPFlag("media.directory", flags.Lookup("directory"))
	_ = viper.BindPFlag("media.list", flags.Lookup("list-media"))
	_ = viper.BindPFlag("media.preserve_paths", flags.Lookup("preserve-paths"))
	_ = viper.BindPFlag("batch.fail_fast", flags.Lookup("fail-fast"))
	_ = viper.BindPFlag("store.enabled", flags.Lookup("record"))
}

func applyIdentity(identity *appid.Identity) {
	if identity.BinaryName != "" {
		rootCmd.Use = identity.BinaryName + " [flags] <file or directory>"
	}
	if identity.Description != "" {
		rootCmd.Short = identity.Description
	}
	if f := rootCmd.PersistentFlags().Lookup("config"); f != nil && identity.ConfigName != "" {
		f.Usage = fmt.Sprintf("config file (default is $XDG_CONFIG_HOME/%s/config.yaml)", identity.ConfigName)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	identity, err := appid.Get(context.Background())
	if err != nil {
		ExitWithCodeStderr(foundry.ExitFileNotFound, "Failed to load app identity", err)
	}
	appIdentity = identity
	applyIdentity(identity)

	// Early logger so config loading can report; rebuilt once config is known.
	observability.InitCLILogger(appIdentity.BinaryName, "", "", verbose)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		appConfigDir := gfconfig.GetAppConfigDir(appIdentity.ConfigName)
		if appConfigDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				ExitWithCode(observability.CLILogger, foundry.ExitFileNotFound, "Could not find home directory", err)
			}
			viper.AddConfigPath(home)
			viper.SetConfigName("." + appIdentity.ConfigName)
		} else {
			viper.AddConfigPath(appConfigDir)
			viper.SetConfigName("config")
		}

		// Also search in current directory
		viper.AddConfigPath("./config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(strings.TrimSuffix(appIdentity.EnvPrefix, "_"))
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		observability.CLILogger.Debug("Using config file", zap.String("path", viper.ConfigFileUsed()))
	} else {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		switch {
		case cfgFile != "":
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Failed to read config file",
				errwrap.WrapConfigInvalid(context.Background(), err, "config file "+cfgFile+" could not be read"))
		case notFound:
			// Defaults and environment variables apply.
			observability.CLILogger.Debug("No config file found, using defaults and environment variables")
		default:
			observability.CLILogger.Warn("Error reading config file", zap.Error(err))
		}
	}

	config.SetDefaults(viper.GetViper())

	cfg, err := config.Load(context.Background(), viper.GetViper())
	if err != nil {
		ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid configuration",
			errwrap.WrapConfigInvalid(context.Background(), err, "configuration is invalid"))
	}

	observability.InitCLILogger(appIdentity.BinaryName, cfg.Logging.Profile, cfg.Logging.Level, verbose)
}
