package leave

import (
	"time"

	"github.com/staffdesk/leavedesk-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// SubmitRequest is the employee-facing leave submission.
type SubmitRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be a date in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate is required",
		})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be a date in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TotalDays is the inclusive calendar-day span between two dates. Returns 0
// when either date does not parse.
func TotalDays(startDate, endDate string) int {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
