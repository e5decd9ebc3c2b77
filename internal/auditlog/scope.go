package auditlog

import (
	"context"

	"github.com/usermgmt/admin-web/internal/models"
)

type scopeKey struct{}

// Scope correlates log emissions with the user and action an operation is
// acting on. It travels on the request context so every emission inside the
// operation is tagged without the callee knowing about it.
type Scope struct {
	UserID int64
	Action models.LogEvent
}

// WithScope returns a context carrying a correlation scope.
func WithScope(ctx context.Context, userID int64, action models.LogEvent) context.Context {
	return context.WithValue(ctx, scopeKey{}, Scope{UserID: userID, Action: action})
}

// ScopeFrom extracts the correlation scope, if one was established.
func ScopeFrom(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(Scope)
	return s, ok
}
