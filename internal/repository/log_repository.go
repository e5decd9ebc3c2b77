package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/usermgmt/admin-web/internal/models"
)

const logColumns = `id, event_id, user_action, level, message, exception, timestamp, user_id`

// LogRepository provides database access for the audit trail. The audit sink
// writes through this repository, so log writes share the store and failure
// semantics of every other write in the application.
type LogRepository struct {
	db *sqlx.DB
}

// NewLogRepository creates a new instance of LogRepository.
func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

// List returns every log entry in insertion order.
func (r *LogRepository) List(ctx context.Context) ([]models.Log, error) {
	const query = `SELECT ` + logColumns + ` FROM logs ORDER BY id`
	logs := []models.Log{}
	if err := r.db.SelectContext(ctx, &logs, query); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}

// ListByUser returns the log entries associated with a user id.
func (r *LogRepository) ListByUser(ctx context.Context, userID int64) ([]models.Log, error) {
	const query = `SELECT ` + logColumns + ` FROM logs WHERE user_id = ? ORDER BY id`
	logs := []models.Log{}
	if err := r.db.SelectContext(ctx, &logs, query, userID); err != nil {
		return nil, fmt.Errorf("list logs by user: %w", err)
	}
	return logs, nil
}

// Create appends a log entry and assigns the store-generated id.
func (r *LogRepository) Create(ctx context.Context, log *models.Log) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	const query = `INSERT INTO logs (event_id, user_action, level, message, exception, timestamp, user_id) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, log.EventID, log.UserAction, log.Level, log.Message, log.Exception, log.Timestamp, log.UserID)
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create log id: %w", err)
	}
	log.ID = id
	return nil
}
