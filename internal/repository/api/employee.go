package api

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/pkg/remote"
)

// EmployeeRepository reads and writes employee records through the
// record-keeping service.
type EmployeeRepository struct {
	client *remote.Client
}

func NewEmployeeRepository(client *remote.Client) *EmployeeRepository {
	return &EmployeeRepository{client: client}
}

// employeePayload is the write shape. The password travels separately
// through the signup endpoint and is never part of an employee write. The
// email rides along on create so the record stays correlated with its
// identity; updates omit it because the identity is never edited.
type employeePayload struct {
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email,omitempty"`
	Salary     decimal.Decimal `json:"salary"`
	MissedDays int             `json:"missedDays"`
}

func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	var emps []employee.Employee
	if err := r.client.Get(ctx, "/employees", &emps); err != nil {
		return nil, err
	}
	return emps, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	payload := employeePayload{
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		Email:      emp.Email,
		Salary:     emp.Salary,
		MissedDays: emp.MissedDays,
	}
	var created employee.Employee
	if err := r.client.Post(ctx, "/employees", payload, &created); err != nil {
		return employee.Employee{}, err
	}
	return created, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, req employee.SaveRequest) (employee.Employee, error) {
	payload := employeePayload{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Salary:     req.Salary,
		MissedDays: req.MissedDays,
	}
	var updated employee.Employee
	if err := r.client.Put(ctx, "/employees/"+id, payload, &updated); err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}
