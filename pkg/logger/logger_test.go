package logger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gss/competition-registration/pkg/clients/competition"
	"github.com/gss/competition-registration/pkg/workflow"
)

func TestNew(t *testing.T) {
	l, err := New("production", "")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("development", "")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("development", "error")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))

	_, err = New("development", "loud")
	assert.Error(t, err)
}

func TestReporter_Report(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewReporter(zap.New(core))

	statusErr := &competition.StatusError{Method: "POST", Path: "/users", StatusCode: 502}
	ctx := WithSession(context.Background(), "sess-1")
	r.Report(ctx, workflow.ActionRegister, fmt.Errorf("wrapped: %w", statusErr))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, workflow.ActionRegister, fields["action"])
	assert.Equal(t, "sess-1", fields["session"])
	assert.Equal(t, int64(502), fields["backend_status"])
}

func TestReporter_ClipboardIsInfo(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewReporter(zap.New(core))

	r.Report(context.Background(), workflow.ActionCopySharingLink, errors.New("no xclip"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	_, hasSession := logs.All()[0].ContextMap()["session"]
	assert.False(t, hasSession)
}
