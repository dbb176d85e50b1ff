package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/pkg/statestore"
)

const employeesCollection = "employees"

// EmployeeRepository serves the employee collection from the local mirror.
// Every write is a whole-collection read-modify-write; the mutex keeps that
// sequence single-writer.
type EmployeeRepository struct {
	store *statestore.Store
	mu    sync.Mutex
}

func NewEmployeeRepository(store *statestore.Store) *EmployeeRepository {
	return &EmployeeRepository{store: store}
}

func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	raw, err := r.store.ReadCollection(ctx, employeesCollection)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []employee.Employee{}, nil
	}
	var emps []employee.Employee
	if err := json.Unmarshal(raw, &emps); err != nil {
		return nil, fmt.Errorf("mirror: decode employees: %w", err)
	}
	return emps, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	emps, err := r.List(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	if emp.ID == "" {
		emp.ID = "emp-" + uuid.NewString()
	}
	if emp.Role == "" {
		emp.Role = employee.RoleEmployee
	}
	emps = append(emps, emp)
	if err := r.replaceLocked(ctx, emps); err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, req employee.SaveRequest) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	emps, err := r.List(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	for i := range emps {
		if emps[i].ID != id {
			continue
		}
		emps[i].FirstName = req.FirstName
		emps[i].LastName = req.LastName
		emps[i].Salary = req.Salary
		emps[i].MissedDays = req.MissedDays
		if req.Email != "" {
			emps[i].Email = req.Email
		}
		if err := r.replaceLocked(ctx, emps); err != nil {
			return employee.Employee{}, err
		}
		return emps[i], nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

// Replace swaps in a whole snapshot. Used by the seed fixtures.
func (r *EmployeeRepository) Replace(ctx context.Context, emps []employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaceLocked(ctx, emps)
}

func (r *EmployeeRepository) replaceLocked(ctx context.Context, emps []employee.Employee) error {
	data, err := json.Marshal(emps)
	if err != nil {
		return fmt.Errorf("mirror: encode employees: %w", err)
	}
	return r.store.WriteCollection(ctx, employeesCollection, data)
}
