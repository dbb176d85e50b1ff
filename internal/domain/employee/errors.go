package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("Employee not found")
	ErrEmailExists      = errors.New("Email already registered")
	// ErrIdentityWithoutRecord marks the partial-failure window of the
	// two-step create: the auth identity exists but the employee record
	// does not, and nothing rolls the identity back.
	ErrIdentityWithoutRecord = errors.New("Auth identity created but employee record was not")
)
