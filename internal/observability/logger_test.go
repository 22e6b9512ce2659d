package observability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/quixfix/internal/config"
)

// syncBuffer is a minimal zapcore.WriteSyncer backed by a strings.Builder.
type syncBuffer struct {
	strings.Builder
}

func (b *syncBuffer) Sync() error { return nil }

func TestInitializeAndGetLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &syncBuffer{}
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "quixfix-test",
	}, buf)

	logger := GetLogger()
	require.NotNil(t, logger)

	logger.Info("repair started", zap.String("file", "gcd.py"))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, `"repair started"`)
	assert.Contains(t, out, `"gcd.py"`)
	assert.Contains(t, out, "quixfix-test")
}

func TestInitializeOnlyRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &syncBuffer{}
	second := &syncBuffer{}
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "a"}, first)
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "b"}, second)

	GetLogger().Info("only once")
	_ = GetLogger().Sync()

	assert.Contains(t, first.String(), "only once")
	assert.Empty(t, second.String())
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	// The fallback must be usable without panicking.
	logger.Debug("fallback logger in use")
}

func TestGetEncoderFormats(t *testing.T) {
	console := getEncoder(config.LoggerConfig{Format: "console"})
	jsonEnc := getEncoder(config.LoggerConfig{Format: "json"})

	entry := zapcore.Entry{Level: zapcore.InfoLevel, Message: "m"}
	cBuf, err := console.EncodeEntry(entry, nil)
	require.NoError(t, err)
	jBuf, err := jsonEnc.EncodeEntry(entry, nil)
	require.NoError(t, err)

	assert.NotEqual(t, cBuf.String(), jBuf.String())
	assert.True(t, strings.HasPrefix(jBuf.String(), "{"))
}
