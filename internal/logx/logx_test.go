package logx_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/kadirpekel/hector-driverloop/internal/logx"
	"github.com/stretchr/testify/require"
)

func TestSetupTextHandlerWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := logx.Setup(logx.Options{Level: slog.LevelInfo, Writer: &buf})
	logger.Info("iteration complete", "iteration", 3)

	require.Contains(t, buf.String(), "iteration complete")
	require.Contains(t, buf.String(), "iteration=3")
}

func TestSetupFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logx.Setup(logx.Options{Level: slog.LevelWarn, Writer: &buf})
	logger.Info("should not appear")

	require.Empty(t, buf.String())
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logx.Setup(logx.Options{Level: slog.LevelInfo, Writer: &buf, JSON: true})
	logger.Info("hello")

	require.Contains(t, buf.String(), `"msg":"hello"`)
}
