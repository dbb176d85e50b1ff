package fixtures

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/domain/leave"
	"github.com/staffdesk/leavedesk-go/internal/pkg/statestore"
	"github.com/staffdesk/leavedesk-go/internal/repository/mirror"
)

// DefaultEmployees is the demo employee collection seeded into an empty
// mirror so offline operation has data to show.
func DefaultEmployees() []employee.Employee {
	return []employee.Employee{
		{
			ID:         "emp-001",
			FirstName:  "Alice",
			LastName:   "Johnson",
			Email:      "alice@company.com",
			Salary:     decimal.NewFromInt(60000),
			MissedDays: 5,
			Role:       employee.RoleEmployee,
		},
		{
			ID:         "emp-002",
			FirstName:  "Bob",
			LastName:   "Smith",
			Email:      "bob@company.com",
			Salary:     decimal.NewFromInt(75000),
			MissedDays: 2,
			Role:       employee.RoleEmployee,
		},
	}
}

// DefaultLeaveRequests deliberately mixes the historical status shapes so
// the reconciler is exercised from the first page load.
func DefaultLeaveRequests() []leave.Record {
	return []leave.Record{
		{
			RequestID:    "101",
			EmployeeID:   "emp-001",
			EmployeeName: "Alice Johnson",
			StartDate:    "2025-10-01",
			EndDate:      "2025-10-05",
			TotalDays:    5,
			Status:       "Pending",
		},
		{
			RequestID:    "102",
			EmployeeID:   "emp-002",
			EmployeeName: "Bob Smith",
			StartDate:    "2025-08-11",
			EndDate:      "2025-08-12",
			TotalDays:    2,
			Approved:     true,
		},
	}
}

// EnsureSeed populates the mirror collections that have never been written.
// Collections the user already touched are left alone.
func EnsureSeed(ctx context.Context, store *statestore.Store) error {
	raw, err := store.ReadCollection(ctx, "employees")
	if err != nil {
		return err
	}
	if raw == nil {
		if err := mirror.NewEmployeeRepository(store).Replace(ctx, DefaultEmployees()); err != nil {
			return err
		}
	}

	raw, err = store.ReadCollection(ctx, "leaveRequests")
	if err != nil {
		return err
	}
	if raw == nil {
		if err := mirror.NewLeaveRepository(store).Replace(ctx, DefaultLeaveRequests()); err != nil {
			return err
		}
	}
	return nil
}
