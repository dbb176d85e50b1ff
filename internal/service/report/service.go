package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/domain/leave"
	"github.com/staffdesk/leavedesk-go/internal/service/access"
	"github.com/staffdesk/leavedesk-go/internal/service/records"
)

type Type string

const (
	TypeEmployeeList  Type = "EmployeeList"
	TypeLeaveSummary  Type = "LeaveSummary"
	TypePendingLeaves Type = "PendingLeaves"
)

var (
	ErrUnknownType   = errors.New("Unknown report type")
	ErrNotAuthorized = errors.New("Report generation requires an administrator session")
)

// Service renders admin CSV reports from facade reads. Leave rows always
// carry the reconciled status.
type Service struct {
	guard   *access.Guard
	records *records.Service
}

func NewService(guard *access.Guard, recordsService *records.Service) *Service {
	return &Service{guard: guard, records: recordsService}
}

// Generate writes the report as CSV and returns the suggested file name.
func (s *Service) Generate(ctx context.Context, typ Type, w io.Writer) (string, error) {
	decision, err := s.guard.Authorize(ctx, employee.RoleAdmin)
	if err != nil {
		return "", err
	}
	if !decision.Allowed {
		return "", ErrNotAuthorized
	}

	switch typ {
	case TypeEmployeeList:
		return "Employee_List.csv", s.employeeList(ctx, w)
	case TypeLeaveSummary:
		return "All_Leave_Summary.csv", s.leaveSummary(ctx, w, false)
	case TypePendingLeaves:
		return "Pending_Leave_Summary.csv", s.leaveSummary(ctx, w, true)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
}

func (s *Service) employeeList(ctx context.Context, w io.Writer) error {
	emps, err := s.records.FetchEmployees(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Email", "Role", "Salary", "MissedDays"}); err != nil {
		return err
	}
	for _, emp := range emps {
		role := emp.Role
		if role == "" {
			role = employee.RoleEmployee
		}
		row := []string{
			emp.ID,
			emp.FullName(),
			emp.Email,
			string(role),
			emp.Salary.String(),
			strconv.Itoa(emp.MissedDays),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) leaveSummary(ctx context.Context, w io.Writer, pendingOnly bool) error {
	var (
		reqs []leave.Request
		err  error
	)
	if pendingOnly {
		reqs, err = s.records.PendingLeaveRequests(ctx)
	} else {
		reqs, err = s.records.FetchLeaveRequests(ctx)
	}
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Employee", "StartDate", "EndDate", "TotalDays", "Status"}); err != nil {
		return err
	}
	for _, req := range reqs {
		name := req.EmployeeName
		if name == "" {
			name = "N/A"
		}
		row := []string{
			req.RequestID,
			name,
			req.StartDate,
			req.EndDate,
			strconv.Itoa(req.TotalDays),
			string(req.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
