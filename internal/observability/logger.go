// Package observability builds the process logger from gofulmen logging.
package observability

import (
	"fmt"
	"os"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
)

// Logging profiles accepted by logging.profile.
const (
	ProfileCLI        = "cli"
	ProfileStructured = "structured"
)

// CLILogger is the process-wide logger. It writes to stderr so the report on
// stdout stays clean.
var CLILogger *logging.Logger

// InitCLILogger initializes CLILogger. verbose forces debug level.
func InitCLILogger(serviceName, profile, level string, verbose bool) {
	logger, err := NewLogger(serviceName, profile, level, verbose)
	if err != nil {
		exitWithCodeStderr(foundry.ExitConfigInvalid, "Failed to initialize CLI logger", err)
	}
	CLILogger = logger
}

// NewLogger builds a logger for the given profile and level.
func NewLogger(serviceName, profile, level string, verbose bool) (*logging.Logger, error) {
	if verbose {
		level = "debug"
	}
	level = strings.ToLower(strings.TrimSpace(level))

	switch strings.ToLower(strings.TrimSpace(profile)) {
	case "", ProfileCLI:
		if level == "" || level == "info" {
			return logging.NewCLI(serviceName)
		}
		if level == "debug" {
			logger, err := logging.NewCLI(serviceName)
			if err != nil {
				return nil, err
			}
			logger.SetLevel(logging.DEBUG)
			return logger, nil
		}
		return logging.New(loggerConfig(serviceName, level, false))
	case ProfileStructured:
		return logging.New(loggerConfig(serviceName, level, true))
	default:
		return nil, fmt.Errorf("unknown logging profile %q", profile)
	}
}

func loggerConfig(serviceName, level string, structured bool) *logging.LoggerConfig {
	format := "console"
	if structured {
		format = "json"
	}

	cfg := &logging.LoggerConfig{
		Profile:      logging.ProfileSimple,
		DefaultLevel: parseLogLevel(level),
		Service:      serviceName,
		Environment:  "cli",
		Sinks: []logging.SinkConfig{
			{
				Type:   "console",
				Format: format,
				Console: &logging.ConsoleSinkConfig{
					Stream:   "stderr",
					Colorize: false,
				},
			},
		},
	}
	if structured {
		cfg.Profile = logging.ProfileStructured
		cfg.EnableCaller = true
	}
	return cfg
}

// parseLogLevel converts string log level to logging severity string
func parseLogLevel(levelStr string) string {
	switch levelStr {
	case "trace":
		return "TRACE"
	case "debug":
		return "DEBUG"
	case "info":
		return "INFO"
	case "warn", "warning":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}

// exitWithCodeStderr exits with a semantic exit code, writing to stderr.
// Used for logger initialization failures, before any logger exists.
func exitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %s: %v (exit code: %d)\n", msg, err, exitCode)
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: %s (exit code: %d)\n", msg, exitCode)
		}
		os.Exit(int(exitCode))
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "FATAL: %s\n", msg)
	}
	fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)

	os.Exit(info.Code)
}
