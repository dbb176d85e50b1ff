package session

import "github.com/staffdesk/leavedesk-go/internal/domain/employee"

// User is the identity attached to a session.
type User struct {
	ID        string        `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Role      employee.Role `json:"role"`
}

func (u User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}

// Session is the active authentication context. Exactly two variants exist
// and every session-dependent branch (token attachment, 401 handling,
// logout) switches exhaustively over them.
type Session interface {
	User() User
	sealed()
}

// EmployeeSession carries a bearer token obtained from the remote auth
// service. The token is always present; the role is client-asserted as
// Employee regardless of what the backend returned.
type EmployeeSession struct {
	Token   string
	Account User
}

func (s EmployeeSession) User() User { return s.Account }
func (EmployeeSession) sealed()      {}

// AdminSession is locally asserted against a fixed credential pair and never
// carries a token.
type AdminSession struct {
	Account User
}

func (s AdminSession) User() User { return s.Account }
func (AdminSession) sealed()      {}
