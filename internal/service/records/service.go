package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/domain/leave"
	"github.com/staffdesk/leavedesk-go/internal/domain/session"
	"github.com/staffdesk/leavedesk-go/internal/pkg/remote"
	"github.com/staffdesk/leavedesk-go/internal/repository/api"
)

// Service is the single read/write boundary for employees and leave
// requests. Reads go remote-first and fall back to the mirror transparently;
// callers cannot tell live data from cached. Write failures are surfaced,
// never retried, with two offline-continuity exceptions (leave submission
// and employee creation) that write the mirror instead. Leave collections
// never leave this service in a raw status shape.
type Service struct {
	sessions        session.Store
	factory         *remote.Factory
	mirrorEmployees employee.Repository
	mirrorLeaves    leave.Repository
	logger          *slog.Logger
}

func NewService(
	sessions session.Store,
	factory *remote.Factory,
	mirrorEmployees employee.Repository,
	mirrorLeaves leave.Repository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:        sessions,
		factory:         factory,
		mirrorEmployees: mirrorEmployees,
		mirrorLeaves:    mirrorLeaves,
		logger:          logger,
	}
}

func (s *Service) employeeAPI(sess session.Session) employee.Repository {
	return api.NewEmployeeRepository(s.factory.ClientFor(sess))
}

func (s *Service) leaveAPI(sess session.Session) leave.Repository {
	return api.NewLeaveRepository(s.factory.ClientFor(sess))
}

// readFallback classifies a remote read failure. It reports whether the
// mirror should serve the read; otherwise the returned error goes to the
// caller. A 401 under an employee session invalidates the session; under an
// admin session (which never had a token) the same 401 only means the
// endpoint wanted auth this session cannot supply, so the mirror serves.
func (s *Service) readFallback(ctx context.Context, sess session.Session, err error) (bool, error) {
	switch {
	case errors.Is(err, remote.ErrAuthExpired):
		switch sess.(type) {
		case session.EmployeeSession:
			if cerr := s.sessions.Clear(ctx); cerr != nil {
				s.logger.Error("failed to clear expired session", "error", cerr)
			}
			return false, session.ErrSessionExpired
		default:
			s.logger.Debug("auth-only endpoint under admin session, serving mirror", "error", err)
			return true, nil
		}
	case errors.Is(err, remote.ErrUnavailable):
		s.logger.Warn("remote unavailable, serving mirror", "error", err)
		return true, nil
	default:
		return false, err
	}
}

// writeFailure classifies a remote write failure. Writes never fall back
// silently; a 401 under an employee session still invalidates the session,
// while under an admin session it is reported as plain unavailability.
func (s *Service) writeFailure(ctx context.Context, sess session.Session, err error) error {
	if errors.Is(err, remote.ErrAuthExpired) {
		switch sess.(type) {
		case session.EmployeeSession:
			if cerr := s.sessions.Clear(ctx); cerr != nil {
				s.logger.Error("failed to clear expired session", "error", cerr)
			}
			return session.ErrSessionExpired
		default:
			return fmt.Errorf("%w: endpoint requires credentials this session does not carry", remote.ErrUnavailable)
		}
	}
	return err
}

// FetchEmployees lists employees, remote-first.
func (s *Service) FetchEmployees(ctx context.Context) ([]employee.Employee, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	emps, err := s.employeeAPI(sess).List(ctx)
	if err != nil {
		fallback, ferr := s.readFallback(ctx, sess, err)
		if !fallback {
			return nil, ferr
		}
		return s.mirrorEmployees.List(ctx)
	}
	return emps, nil
}

// GetEmployee finds one employee in the fetched collection.
func (s *Service) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emps, err := s.FetchEmployees(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	for _, emp := range emps {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *Service) fetchLeaveRecords(ctx context.Context) ([]leave.Record, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.leaveAPI(sess).List(ctx)
	if err != nil {
		fallback, ferr := s.readFallback(ctx, sess, err)
		if !fallback {
			return nil, ferr
		}
		return s.mirrorLeaves.List(ctx)
	}
	return recs, nil
}

// FetchLeaveRequests lists leave requests with statuses already reconciled.
func (s *Service) FetchLeaveRequests(ctx context.Context) ([]leave.Request, error) {
	recs, err := s.fetchLeaveRecords(ctx)
	if err != nil {
		return nil, err
	}
	return leave.NormalizeAll(recs), nil
}

// PendingLeaveRequests is the admin queue: the stable subsequence still
// awaiting a decision, in collection order.
func (s *Service) PendingLeaveRequests(ctx context.Context) ([]leave.Request, error) {
	recs, err := s.fetchLeaveRecords(ctx)
	if err != nil {
		return nil, err
	}
	return leave.PendingQueue(recs), nil
}

// MyLeaveRequests filters the reconciled collection down to the session
// user's own submissions.
func (s *Service) MyLeaveRequests(ctx context.Context) ([]leave.Request, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.FetchLeaveRequests(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]leave.Request, 0, len(all))
	for _, req := range all {
		if req.EmployeeID == sess.User().ID {
			mine = append(mine, req)
		}
	}
	return mine, nil
}

// SubmitLeaveRequest posts a new leave request under the current session.
// When the service is unavailable it synthesizes a PENDING record with a
// local identifier into the mirror instead; that record is never reconciled
// back once connectivity returns.
func (s *Service) SubmitLeaveRequest(ctx context.Context, req leave.SubmitRequest) (leave.Request, error) {
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return leave.Request{}, err
	}

	created, err := s.leaveAPI(sess).Create(ctx, leave.Record{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		if errors.Is(err, remote.ErrAuthExpired) {
			return leave.Request{}, s.writeFailure(ctx, sess, err)
		}
		if !errors.Is(err, remote.ErrUnavailable) {
			return leave.Request{}, err
		}
		user := sess.User()
		local := leave.Record{
			EmployeeID:   user.ID,
			EmployeeName: user.FullName(),
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			TotalDays:    leave.TotalDays(req.StartDate, req.EndDate),
			Status:       string(leave.StatusPending),
		}
		created, err = s.mirrorLeaves.Create(ctx, local)
		if err != nil {
			return leave.Request{}, err
		}
		s.logger.Warn("remote unavailable, leave request recorded locally", "requestId", created.RequestID)
	}
	return leave.Normalize(created), nil
}

// SetLeaveStatus commits an approve/reject transition remotely, then keeps
// the mirror's copy in step. Callers check the reconciled status before
// invoking; this service does not enforce that the request is PENDING.
func (s *Service) SetLeaveStatus(ctx context.Context, id string, target leave.Status) error {
	if target != leave.StatusApproved && target != leave.StatusRejected {
		return leave.ErrInvalidTargetStatus
	}
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if err := s.leaveAPI(sess).SetStatus(ctx, id, target); err != nil {
		return s.writeFailure(ctx, sess, err)
	}
	if err := s.mirrorLeaves.SetStatus(ctx, id, target); err != nil && !errors.Is(err, leave.ErrLeaveRequestNotFound) {
		s.logger.Warn("mirror status update failed", "requestId", id, "error", err)
	}
	return nil
}

// SaveEmployee updates an existing employee (id given) or creates a new one.
// Creation is a two-step remote sequence: the auth identity first, then the
// employee record. The identity step is not rolled back when the record step
// fails; the SaveResult makes the partial state explicit so the caller can
// say exactly what happened.
func (s *Service) SaveEmployee(ctx context.Context, id string, req employee.SaveRequest) (employee.SaveResult, error) {
	creating := id == ""
	if err := req.Validate(creating); err != nil {
		return employee.SaveResult{}, err
	}
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return employee.SaveResult{}, err
	}

	if !creating {
		return s.updateEmployee(ctx, sess, id, req)
	}
	return s.createEmployee(ctx, sess, req)
}

func (s *Service) updateEmployee(ctx context.Context, sess session.Session, id string, req employee.SaveRequest) (employee.SaveResult, error) {
	updated, err := s.employeeAPI(sess).Update(ctx, id, req)
	if err != nil {
		return employee.SaveResult{}, s.writeFailure(ctx, sess, err)
	}
	if _, err := s.mirrorEmployees.Update(ctx, id, req); err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		s.logger.Warn("mirror employee update failed", "employeeId", id, "error", err)
	}
	return employee.SaveResult{Employee: updated, RecordCreated: true}, nil
}

func (s *Service) createEmployee(ctx context.Context, sess session.Session, req employee.SaveRequest) (employee.SaveResult, error) {
	authAPI := api.NewAuthAPI(s.factory.Anonymous())
	if err := authAPI.Signup(ctx, api.SignupRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		if errors.Is(err, remote.ErrUnreachable) {
			return s.createEmployeeLocally(ctx, req)
		}
		return employee.SaveResult{}, err
	}

	created, err := s.employeeAPI(sess).Create(ctx, employee.Employee{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Salary:     req.Salary,
		MissedDays: req.MissedDays,
		Role:       employee.RoleEmployee,
	})
	if err != nil {
		// The identity exists and stays; only the record is missing.
		return employee.SaveResult{IdentityCreated: true},
			fmt.Errorf("%w: %w", employee.ErrIdentityWithoutRecord, s.writeFailure(ctx, sess, err))
	}

	if _, err := s.mirrorEmployees.Create(ctx, created); err != nil {
		s.logger.Warn("mirror employee append failed", "employeeId", created.ID, "error", err)
	}
	return employee.SaveResult{Employee: created, IdentityCreated: true, RecordCreated: true}, nil
}

// createEmployeeLocally is the offline/demo continuity path: the record gets
// a locally generated identifier and lives only in the mirror.
func (s *Service) createEmployeeLocally(ctx context.Context, req employee.SaveRequest) (employee.SaveResult, error) {
	created, err := s.mirrorEmployees.Create(ctx, employee.Employee{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Salary:     req.Salary,
		MissedDays: req.MissedDays,
		Role:       employee.RoleEmployee,
	})
	if err != nil {
		return employee.SaveResult{}, err
	}
	s.logger.Warn("remote unreachable, employee recorded locally", "employeeId", created.ID)
	return employee.SaveResult{Employee: created, RecordCreated: true, Offline: true}, nil
}
