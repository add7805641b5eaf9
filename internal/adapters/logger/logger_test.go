package logger_test

import (
	"bytes"
	"testing"

	"github.com/ctxpack/ctxpack/internal/adapters/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func newBufferedLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	log, ok := logger.New().(*logger.Logger)
	require.True(t, ok)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	return log, &buf
}

func TestLogger_Info(t *testing.T) {
	log, buf := newBufferedLogger(t)

	log.Info("scanning profile root")
	assert.Contains(t, buf.String(), "scanning profile root")
}

func TestLogger_Warn(t *testing.T) {
	log, buf := newBufferedLogger(t)

	log.Warn("3 files could not be counted")
	out := buf.String()
	assert.Contains(t, out, "3 files could not be counted")
	assert.Contains(t, out, "!")
}

func TestLogger_Error_RendersCauseChain(t *testing.T) {
	log, buf := newBufferedLogger(t)

	inner := zerr.New("permission denied")
	err := zerr.Wrap(zerr.Wrap(inner, "failed to read persisted cache"), "starting with an empty cache")
	log.Error(err)

	out := buf.String()
	assert.Contains(t, out, "Error: starting with an empty cache")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ failed to read persisted cache")
	assert.Contains(t, out, "→ permission denied")
}

func TestLogger_Error_NilIsIgnored(t *testing.T) {
	log, buf := newBufferedLogger(t)

	log.Error(nil)
	assert.Empty(t, buf.String())
}
