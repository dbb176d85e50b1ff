package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("Leave request not found")
	ErrInvalidTargetStatus  = errors.New("Target status must be APPROVED or REJECTED")
)
