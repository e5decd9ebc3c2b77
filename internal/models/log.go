package models

import "time"

// LogEvent identifies the operation that produced a log entry. The codes form
// a closed set and are stored as-is.
type LogEvent int

const (
	EventAddUser       LogEvent = 1000
	EventEditUser      LogEvent = 1001
	EventDeleteUser    LogEvent = 1002
	EventViewUser      LogEvent = 1003
	EventFetchUser     LogEvent = 1004
	EventFetchAllUsers LogEvent = 1005
)

// String returns the event name used in views and exports.
func (e LogEvent) String() string {
	switch e {
	case EventAddUser:
		return "AddUser"
	case EventEditUser:
		return "EditUser"
	case EventDeleteUser:
		return "DeleteUser"
	case EventViewUser:
		return "ViewUser"
	case EventFetchUser:
		return "FetchUser"
	case EventFetchAllUsers:
		return "FetchAllUsers"
	default:
		return "Unknown"
	}
}

// Log represents an audit trail record. Rows are written exclusively by the
// audit sink, never updated, and never deleted. UserID is nil for
// system-level entries that carry no correlation scope.
type Log struct {
	ID         int64     `db:"id" json:"id"`
	EventID    LogEvent  `db:"event_id" json:"event_id"`
	UserAction *string   `db:"user_action" json:"user_action,omitempty"`
	Level      string    `db:"level" json:"level"`
	Message    string    `db:"message" json:"message"`
	Exception  *string   `db:"exception" json:"exception,omitempty"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	UserID     *int64    `db:"user_id" json:"user_id,omitempty"`
}
