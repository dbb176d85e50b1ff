package employee

import (
	"github.com/shopspring/decimal"

	"github.com/staffdesk/leavedesk-go/internal/pkg/validator"
)

// SaveRequest carries the employee-form fields. Email and Password are only
// consulted when creating a new employee; the authentication identity is
// never edited afterwards.
type SaveRequest struct {
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email,omitempty"`
	Password   string          `json:"password,omitempty"`
	Salary     decimal.Decimal `json:"salary"`
	MissedDays int             `json:"missedDays"`
}

func (r *SaveRequest) Validate(creating bool) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "firstName",
			Message: "firstName is required",
		})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "lastName",
			Message: "lastName is required",
		})
	}
	if creating {
		if validator.IsEmpty(r.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email is required",
			})
		} else if !validator.IsValidEmail(r.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email format is invalid",
			})
		}
		if validator.IsEmpty(r.Password) {
			errs = append(errs, validator.ValidationError{
				Field:   "password",
				Message: "password is required",
			})
		}
	}
	if r.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "salary",
			Message: "salary must not be negative",
		})
	}
	if r.MissedDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "missedDays",
			Message: "missedDays must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaveResult reports how far a save operation got. Creating an employee is a
// two-step sequence (auth identity, then employee record) with no rollback,
// so the caller needs to distinguish a partial failure from a total one.
type SaveResult struct {
	Employee        Employee
	IdentityCreated bool
	RecordCreated   bool
	Offline         bool
}
