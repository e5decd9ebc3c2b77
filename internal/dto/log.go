package dto

import (
	"time"

	"github.com/usermgmt/admin-web/internal/models"
)

// LogViewModel is the display projection of an audit trail entry with its
// associated user resolved, when one exists.
type LogViewModel struct {
	ID         int64
	EventID    int
	Event      string
	UserAction string
	Level      string
	Message    string
	Timestamp  time.Time
	User       *UserViewModel
}

// LogFromModel maps a stored log entry onto its view model. The user is
// attached separately once resolved.
func LogFromModel(l models.Log) LogViewModel {
	vm := LogViewModel{
		ID:        l.ID,
		EventID:   int(l.EventID),
		Event:     l.EventID.String(),
		Level:     l.Level,
		Message:   l.Message,
		Timestamp: l.Timestamp,
	}
	if l.UserAction != nil {
		vm.UserAction = *l.UserAction
	}
	return vm
}

// LogListViewModel backs the aggregate logs page.
type LogListViewModel struct {
	Logs []LogViewModel
}
