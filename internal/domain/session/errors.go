package session

import "errors"

var (
	ErrNoSession          = errors.New("No active session")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrSessionExpired     = errors.New("Session expired, please log in again")
)
