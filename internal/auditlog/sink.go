package auditlog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/usermgmt/admin-web/internal/models"
)

type logStore interface {
	Create(ctx context.Context, log *models.Log) error
}

type counter interface {
	ObserveAuditEntry(outcome string)
}

// Sink persists log emissions as audit trail rows. Emissions below the
// configured minimum level are dropped with no side effect; accepted ones are
// written synchronously through the same store used by the rest of the
// application and mirrored to the structured logger.
type Sink struct {
	store   logStore
	min     zapcore.Level
	logger  *zap.Logger
	metrics counter
}

// NewSink creates a sink writing through store. metrics may be nil.
func NewSink(store logStore, min zapcore.Level, logger *zap.Logger, metrics counter) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{store: store, min: min, logger: logger, metrics: metrics}
}

// MinLevel reports the configured acceptance threshold.
func (s *Sink) MinLevel() zapcore.Level { return s.min }

// Debug emits a debug-level record.
func (s *Sink) Debug(ctx context.Context, event models.LogEvent, format string, args ...interface{}) {
	s.emit(ctx, zapcore.DebugLevel, event, nil, format, args...)
}

// Info emits an info-level record.
func (s *Sink) Info(ctx context.Context, event models.LogEvent, format string, args ...interface{}) {
	s.emit(ctx, zapcore.InfoLevel, event, nil, format, args...)
}

// Error emits an error-level record carrying the exception detail.
func (s *Sink) Error(ctx context.Context, event models.LogEvent, err error, format string, args ...interface{}) {
	s.emit(ctx, zapcore.ErrorLevel, event, err, format, args...)
}

func (s *Sink) emit(ctx context.Context, level zapcore.Level, event models.LogEvent, cause error, format string, args ...interface{}) {
	if level < s.min {
		if s.metrics != nil {
			s.metrics.ObserveAuditEntry("dropped")
		}
		return
	}

	// Message is formatted eagerly; the row must hold the final text.
	message := fmt.Sprintf(format, args...)

	entry := &models.Log{
		EventID:   event,
		Level:     level.String(),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if cause != nil {
		exception := cause.Error()
		entry.Exception = &exception
	}

	fields := []zap.Field{zap.Int("event_id", int(event))}
	if scope, ok := ScopeFrom(ctx); ok {
		userID := scope.UserID
		action := scope.Action.String()
		entry.UserID = &userID
		entry.UserAction = &action
		fields = append(fields, zap.Int64("user_id", userID), zap.String("user_action", action))
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}

	if ce := s.logger.Check(level, message); ce != nil {
		ce.Write(fields...)
	}

	if err := s.store.Create(ctx, entry); err != nil {
		if s.metrics != nil {
			s.metrics.ObserveAuditEntry("failed")
		}
		s.logger.Warn("failed to persist audit log entry", zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveAuditEntry("written")
	}
}
