package testlog

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/coresim/internal/logging"
)

// Start configures the test logging profile and returns a logger routed
// through t, so worker traces land next to the failing assertion.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	logging.ConfigureTests()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	logger.Info().Str("test", t.Name()).Msg("start")
	return logger
}
