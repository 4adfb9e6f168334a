package logger

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gss/competition-registration/pkg/clients/competition"
	"github.com/gss/competition-registration/pkg/workflow"
)

// New builds a JSON logger for production and a colored console logger
// everywhere else
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	return cfg.Build()
}

type sessionKey struct{}

// WithSession tags ctx with the browser session id used in reports
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// Reporter logs failures that the workflow shows to the user as a page
// message, or swallows
type Reporter struct {
	logger *zap.Logger
}

// NewReporter creates a Reporter writing to logger
func NewReporter(logger *zap.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Report logs a handled failure of action
func (r *Reporter) Report(ctx context.Context, action string, err error) {
	fields := []zap.Field{
		zap.String("action", action),
		zap.Error(err),
	}
	if id, ok := ctx.Value(sessionKey{}).(string); ok {
		fields = append(fields, zap.String("session", id))
	}

	var statusErr *competition.StatusError
	if errors.As(err, &statusErr) {
		fields = append(fields, zap.Int("backend_status", statusErr.StatusCode))
	}

	if action == workflow.ActionCopySharingLink {
		r.logger.Info("clipboard copy failed", fields...)
		return
	}
	r.logger.Warn("action failed", fields...)
}
