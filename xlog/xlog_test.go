package xlog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbtree/lib/infra"
)

func testBufferLogger(t *testing.T, lvl LogLevel) (XLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(lvl),
	)
	t.Cleanup(func() {
		_ = logger.Close()
	})
	return logger, buf
}

func TestGetLogLevelOrDefault(t *testing.T) {
	testcases := []struct {
		in       string
		expected zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"  ", zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{" Warn ", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"fatal", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		t.Run(tc.in, func(tt *testing.T) {
			require.Equal(tt, tc.expected, getLogLevelOrDefault(tc.in))
		})
	}
	require.Equal(t, "WARN", LogLevelWarn.String())
}

func TestXLogger_Levels(t *testing.T) {
	logger, buf := testBufferLogger(t, LogLevelInfo)
	require.Equal(t, "info", logger.Level())

	logger.Debug("hidden debug")
	logger.Info("visible info", zap.Int("key", 1))
	logger.Warn("visible warn")
	require.NoError(t, logger.Sync())

	out := buf.String()
	require.NotContains(t, out, "hidden debug")
	require.Contains(t, out, `"msg":"visible info"`)
	require.Contains(t, out, `"lvl":"INFO"`)
	require.Contains(t, out, `"key":1`)
	require.Contains(t, out, `"lvl":"WARN"`)
	require.Contains(t, out, `"callAt":"xlog/xlog_test.go`)

	buf.Reset()
	logger.Logf(zapcore.DebugLevel, "hidden formatted %d", 1)
	logger.Logf(zapcore.InfoLevel, "formatted %d-%s", 42, "x")
	out = buf.String()
	require.NotContains(t, out, "hidden formatted")
	require.Contains(t, out, "formatted 42-x")

	debugLogger, debugBuf := testBufferLogger(t, LogLevelDebug)
	require.Equal(t, "debug", debugLogger.Level())
	debugLogger.Debug("shown debug")
	require.Contains(t, debugBuf.String(), "shown debug")
}

func TestXLogger_Named(t *testing.T) {
	logger, buf := testBufferLogger(t, LogLevelDebug)
	logger.Named("rbtree").Info("named")
	require.Contains(t, buf.String(), `"component":"rbtree"`)

	// Children keep the level of the parent.
	warnLogger, warnBuf := testBufferLogger(t, LogLevelWarn)
	child := warnLogger.Named("child")
	require.Equal(t, "warn", child.Level())
	child.Info("muted")
	require.Empty(t, warnBuf.String())
	child.Warn("loud")
	require.Contains(t, warnBuf.String(), `"component":"child"`)
}

func TestXLogger_Error(t *testing.T) {
	logger, buf := testBufferLogger(t, LogLevelDebug)

	logger.Error(errors.New("plain failure"), "error happened")
	require.Contains(t, buf.String(), `"error":"plain failure"`)
	require.NotContains(t, buf.String(), "errorStack")

	buf.Reset()
	logger.Error(nil, "no error attached")
	require.Contains(t, buf.String(), "no error attached")
	require.NotContains(t, buf.String(), `"error"`)
}

func TestXLogger_ErrorStack(t *testing.T) {
	logger, buf := testBufferLogger(t, LogLevelDebug)

	err := infra.WrapErrorStackWithMessage(errors.New("root cause"), "delete key 7")
	logger.ErrorStack(err, "stacked failure")
	out := buf.String()
	require.Contains(t, out, `"msg":"stacked failure"`)
	require.Contains(t, out, `"error":"delete key 7: root cause"`)
	require.Contains(t, out, `"errorStack":[`)
	require.Contains(t, out, "TestXLogger_ErrorStack")

	buf.Reset()
	logger.ErrorStack(errors.New("flat"), "without stack")
	require.Contains(t, buf.String(), `"error":"flat"`)
	require.NotContains(t, buf.String(), "errorStack")
}

func TestXLogger_FileWriter(t *testing.T) {
	dir := t.TempDir()
	logger := NewXLogger(
		WithXLoggerFileWriter(&FileCoreConfig{FilePath: dir, Filename: "xlog.log"}),
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerLevelEncoder(nil),
		WithXLoggerTimeEncoder(nil),
	)
	logger.Info("to file", zap.String("kind", "file"))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, "xlog.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "to file")
	require.Contains(t, string(data), `"kind": "file"`)
}

func TestXLogger_BadOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriteSyncer(nil))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.NotPanics(t, func() {
		logger := NewXLogger(nil, WithXLoggerStdOutWriter())
		require.NotNil(t, logger)
	})
}

type testBanner struct{}

func (testBanner) JSON() string      { return `{"banner":"xrbtree"}` }
func (testBanner) PlainText() string { return "xrbtree" }

func TestXLogger_Banner(t *testing.T) {
	logger, _ := testBufferLogger(t, LogLevelDebug)
	require.NotPanics(t, func() {
		logger.Banner(testBanner{})
		logger.Banner(testBanner{})
	})
}
