package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetLogLevel(logger.WarnLevel)
	t.Cleanup(func() { logger.SetLogLevel(logger.WarnLevel) })

	logger.Debug().Msg("hidden")
	logger.Warn().Str("key", "value").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), `"key":"value"`)
}

func TestErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	err := errors.New().WithData(errors.ErrInvalidMode, "bogus")
	logger.ErrorWithCode(err).Msg("failed")

	assert.Contains(t, buf.String(), `"error_code":"invalid_mode"`)
	assert.Contains(t, buf.String(), "bogus")
}

func TestInitDebugWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, logger.Init(logger.Options{Debug: true, File: path}))
	t.Cleanup(func() { logger.SetLogLevel(logger.WarnLevel) })

	logger.Debug().Msg("connected")
	require.NoError(t, logger.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "connected")
	assert.NoError(t, logger.Close(), "closing twice is not an error")
}

func TestInitInteractiveDiscards(t *testing.T) {
	require.NoError(t, logger.Init(logger.Options{Interactive: true}))

	logger.Warn().Msg("discarded")
	assert.NoError(t, logger.Close())
}
