package access

import (
	"context"
	"errors"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/domain/session"
)

// Redirect targets for denied access.
const (
	RedirectLogin     = "/login"
	RedirectDashboard = "/dashboard"
)

// Decision is the outcome of an authorization check. When Allowed is false
// the caller navigates to RedirectTo and shows Notice if set.
type Decision struct {
	Allowed    bool
	RedirectTo string
	Notice     string
}

// Guard enforces role-gated navigation for the current session. It is a
// precondition check consulted before any data access, not a wrapper that
// retries.
type Guard struct {
	sessions session.Store
}

func NewGuard(sessions session.Store) *Guard {
	return &Guard{sessions: sessions}
}

// Authorize requires an active session and, when requiredRole is non-empty,
// a matching role. A missing session redirects to login; a role mismatch
// redirects to the dashboard with a notice.
func (g *Guard) Authorize(ctx context.Context, requiredRole employee.Role) (Decision, error) {
	sess, err := g.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return Decision{RedirectTo: RedirectLogin}, nil
		}
		return Decision{}, err
	}
	if requiredRole != "" && sess.User().Role != requiredRole {
		return Decision{
			RedirectTo: RedirectDashboard,
			Notice:     "You don't have permission to access this page.",
		}, nil
	}
	return Decision{Allowed: true}, nil
}
