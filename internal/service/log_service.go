package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/usermgmt/admin-web/internal/models"
	appErrors "github.com/usermgmt/admin-web/pkg/errors"
)

type logStore interface {
	List(ctx context.Context) ([]models.Log, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Log, error)
}

// LogService exposes the audit trail to the handlers.
type LogService struct {
	repo   logStore
	logger *zap.Logger
}

// NewLogService creates an instance of LogService.
func NewLogService(repo logStore, logger *zap.Logger) *LogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogService{repo: repo, logger: logger}
}

// GetAll returns every log entry in insertion order.
func (s *LogService) GetAll(ctx context.Context) ([]models.Log, error) {
	logs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list logs")
	}
	return logs, nil
}

// GetByUser returns the log entries associated with a user.
func (s *LogService) GetByUser(ctx context.Context, userID int64) ([]models.Log, error) {
	logs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list logs for user")
	}
	return logs, nil
}
