package session

import "context"

// Store persists and classifies the current session. Mutations are fully
// persisted before returning so a later process observes the latest state.
type Store interface {
	// Login replaces the active session wholesale. A failed attempt leaves
	// any prior session untouched.
	Login(ctx context.Context, email, password string) (Session, error)
	// Current returns ErrNoSession when no session exists or the persisted
	// state is inconsistent (a user without a token on a non-admin session).
	Current(ctx context.Context) (Session, error)
	// Logout clears the session. Employee sessions get a best-effort remote
	// token invalidation first; admin sessions never touch the remote
	// service.
	Logout(ctx context.Context) error
	// Clear drops session state without remote invalidation. Used when the
	// remote service reports the token expired.
	Clear(ctx context.Context) error
}
