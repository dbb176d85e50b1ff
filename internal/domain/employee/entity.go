package employee

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// Employee is a personnel record as held by the record-keeping service and
// mirrored locally. Identifiers are remote-assigned when online and locally
// generated when the record is created offline.
type Employee struct {
	ID         string          `json:"employeeId"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email,omitempty"`
	Salary     decimal.Decimal `json:"salary"`
	MissedDays int             `json:"missedDays"`
	Role       Role            `json:"role,omitempty"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// wireEmployee tolerates the identifier keys used by older backend
// revisions: "employeeId", "employeeID" and plain "id", string or numeric.
type wireEmployee struct {
	EmployeeID  FlexibleID      `json:"employeeId"`
	EmployeeID2 FlexibleID      `json:"employeeID"`
	LegacyID    FlexibleID      `json:"id"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Salary      decimal.Decimal `json:"salary"`
	MissedDays  int             `json:"missedDays"`
	Role        Role            `json:"role"`
}

func (e *Employee) UnmarshalJSON(data []byte) error {
	var w wireEmployee
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := string(w.EmployeeID)
	if id == "" {
		id = string(w.EmployeeID2)
	}
	if id == "" {
		id = string(w.LegacyID)
	}
	*e = Employee{
		ID:         id,
		FirstName:  w.FirstName,
		LastName:   w.LastName,
		Email:      w.Email,
		Salary:     w.Salary,
		MissedDays: w.MissedDays,
		Role:       w.Role,
	}
	return nil
}

// FlexibleID decodes a JSON string or number into its string form. Older
// backend revisions assigned integer identifiers; newer ones use strings.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexibleID(n.String())
	return nil
}
