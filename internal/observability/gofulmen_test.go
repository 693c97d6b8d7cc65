package observability_test

import (
	"testing"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xtractor/xtractor/internal/observability"
)

func TestInitCLILogger(t *testing.T) {
	observability.InitCLILogger("xtractor-test", "", "", false)
	require.NotNil(t, observability.CLILogger)

	observability.CLILogger.Info("Test CLI log message", zap.String("test", "value"))
}

func TestNewLoggerProfiles(t *testing.T) {
	cases := []struct {
		name    string
		profile string
		level   string
		verbose bool
	}{
		{name: "cli default", profile: "cli", level: "info"},
		{name: "cli verbose", profile: "cli", level: "info", verbose: true},
		{name: "cli debug", profile: "cli", level: "debug"},
		{name: "cli quiet", profile: "cli", level: "error"},
		{name: "structured", profile: "structured", level: "warn"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := observability.NewLogger("xtractor-test", tc.profile, tc.level, tc.verbose)
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Debug("Debug message", zap.String("case", tc.name))
		})
	}
}

func TestNewLoggerUnknownProfile(t *testing.T) {
	_, err := observability.NewLogger("xtractor-test", "syslog", "info", false)
	require.Error(t, err)
}

func TestEmbeddedCrucibleVersion(t *testing.T) {
	version := crucible.GetVersion()
	require.NotEmpty(t, version.Gofulmen)
	require.NotEmpty(t, version.Crucible)
	require.NotEmpty(t, crucible.GetVersionString())
}
