package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/staffdesk/leavedesk-go/internal/config"
	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/domain/leave"
	"github.com/staffdesk/leavedesk-go/internal/domain/session"
	"github.com/staffdesk/leavedesk-go/internal/fixtures"
	"github.com/staffdesk/leavedesk-go/internal/pkg/remote"
	"github.com/staffdesk/leavedesk-go/internal/pkg/statestore"
	"github.com/staffdesk/leavedesk-go/internal/repository/mirror"
	"github.com/staffdesk/leavedesk-go/internal/service/access"
	"github.com/staffdesk/leavedesk-go/internal/service/records"
	"github.com/staffdesk/leavedesk-go/internal/service/report"
	sessionsvc "github.com/staffdesk/leavedesk-go/internal/service/session"
)

const usage = `Usage: leavedesk <command> [flags]

Commands:
  login          -email -password      Sign in (admin or employee)
  logout                              End the current session
  whoami                              Show the current session
  employees                           List employees (admin)
  leaves         [-mine]              List leave requests with reconciled status
  pending                             List pending leave requests (admin)
  submit         -start -end          Submit a leave request
  approve        -id                  Approve a pending leave request (admin)
  reject         -id                  Reject a pending leave request (admin)
  add-employee   -first -last -email -password -salary [-missed]   (admin)
  edit-employee  -id [-first] [-last] [-salary] [-missed]          (admin)
  report         -type [-out dir]     Generate a CSV report (admin)
`

type app struct {
	sessions session.Store
	guard    *access.Guard
	records  *records.Service
	reports  *report.Service
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})).With(slog.String("app", "leavedesk"))

	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	store, err := statestore.Open(cfg.State.DSN)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening local state:", err)
		return 1
	}
	defer store.Close()

	ctx := context.Background()
	if err := fixtures.EnsureSeed(ctx, store); err != nil {
		fmt.Fprintln(os.Stderr, "Error seeding local state:", err)
		return 1
	}

	factory := &remote.Factory{BaseURL: cfg.API.BaseURL, Logger: logger}
	sessions, err := sessionsvc.NewStore(store, factory, cfg.Admin.Email, cfg.Admin.Password, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing sessions:", err)
		return 1
	}
	guard := access.NewGuard(sessions)
	recordsSvc := records.NewService(
		sessions,
		factory,
		mirror.NewEmployeeRepository(store),
		mirror.NewLeaveRepository(store),
		logger,
	)

	a := &app{
		sessions: sessions,
		guard:    guard,
		records:  recordsSvc,
		reports:  report.NewService(guard, recordsSvc),
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "employees":
		return a.employees(ctx)
	case "leaves":
		return a.leaves(ctx, rest)
	case "pending":
		return a.pending(ctx)
	case "submit":
		return a.submit(ctx, rest)
	case "approve":
		return a.moderate(ctx, rest, leave.StatusApproved)
	case "reject":
		return a.moderate(ctx, rest, leave.StatusRejected)
	case "add-employee":
		return a.addEmployee(ctx, rest)
	case "edit-employee":
		return a.editEmployee(ctx, rest)
	case "report":
		return a.report(ctx, rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
}

func (a *app) login(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	sess, err := a.sessions.Login(ctx, *email, *password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			fmt.Fprintln(os.Stderr, "Invalid email or password")
			return 1
		}
		fmt.Fprintln(os.Stderr, "Login failed:", err)
		return 1
	}
	switch sess.(type) {
	case session.AdminSession:
		fmt.Printf("Signed in as %s (administrator)\n", sess.User().FullName())
	default:
		fmt.Printf("Signed in as %s\n", sess.User().FullName())
	}
	return 0
}

func (a *app) logout(ctx context.Context) int {
	if err := a.sessions.Logout(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Logout failed:", err)
		return 1
	}
	fmt.Println("Signed out")
	return 0
}

func (a *app) whoami(ctx context.Context) int {
	sess, err := a.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			fmt.Println("Not signed in")
			return 0
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	user := sess.User()
	kind := "employee"
	if _, ok := sess.(session.AdminSession); ok {
		kind = "administrator"
	}
	fmt.Printf("%s <%s> [%s]\n", user.FullName(), user.Email, kind)
	return 0
}

// requireAdmin mirrors page-load gating. A denied decision prints the
// notice and the page the user lands on instead.
func (a *app) requireAdmin(ctx context.Context) (bool, int) {
	decision, err := a.guard.Authorize(ctx, employee.RoleAdmin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return false, 1
	}
	if !decision.Allowed {
		if decision.Notice != "" {
			fmt.Fprintln(os.Stderr, decision.Notice)
		}
		fmt.Fprintln(os.Stderr, "Redirecting to", decision.RedirectTo)
		return false, 1
	}
	return true, 0
}

func (a *app) employees(ctx context.Context) int {
	if ok, code := a.requireAdmin(ctx); !ok {
		return code
	}
	emps, err := a.records.FetchEmployees(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSALARY\tMISSED")
	for _, e := range emps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", e.ID, e.FullName(), e.Email, e.Salary.StringFixed(2), e.MissedDays)
	}
	w.Flush()
	return 0
}

func (a *app) leaves(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("leaves", flag.ExitOnError)
	mine := fs.Bool("mine", false, "only the current user's requests")
	fs.Parse(args)

	var (
		reqs []leave.Request
		err  error
	)
	if *mine {
		reqs, err = a.records.MyLeaveRequests(ctx)
	} else {
		reqs, err = a.records.FetchLeaveRequests(ctx)
	}
	if err != nil {
		return a.fail(ctx, err)
	}
	printLeaves(reqs)
	return 0
}

func (a *app) pending(ctx context.Context) int {
	if ok, code := a.requireAdmin(ctx); !ok {
		return code
	}
	reqs, err := a.records.PendingLeaveRequests(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	printLeaves(reqs)
	return 0
}

func (a *app) submit(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	start := fs.String("start", "", "first day of leave (YYYY-MM-DD)")
	end := fs.String("end", "", "last day of leave (YYYY-MM-DD)")
	fs.Parse(args)

	req, err := a.records.SubmitLeaveRequest(ctx, leave.SubmitRequest{StartDate: *start, EndDate: *end})
	if err != nil {
		return a.fail(ctx, err)
	}
	fmt.Printf("Submitted request %s (%s to %s, %d days, %s)\n",
		req.RequestID, req.StartDate, req.EndDate, req.TotalDays, req.Status)
	return 0
}

func (a *app) moderate(ctx context.Context, args []string, target leave.Status) int {
	name := "approve"
	if target == leave.StatusRejected {
		name = "reject"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.String("id", "", "leave request id")
	fs.Parse(args)

	if ok, code := a.requireAdmin(ctx); !ok {
		return code
	}

	// Moderation acts on the reconciled view. Anything already decided
	// stays decided.
	reqs, err := a.records.FetchLeaveRequests(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	var found *leave.Request
	for i := range reqs {
		if reqs[i].RequestID == *id {
			found = &reqs[i]
			break
		}
	}
	if found == nil {
		fmt.Fprintf(os.Stderr, "Leave request %s was not found\n", *id)
		return 1
	}
	if found.Status == target {
		fmt.Printf("Request %s is already %s\n", *id, target)
		return 0
	}
	if found.Status != leave.StatusPending {
		fmt.Fprintf(os.Stderr, "Request %s is %s and can no longer change\n", *id, found.Status)
		return 1
	}

	if err := a.records.SetLeaveStatus(ctx, *id, target); err != nil {
		return a.fail(ctx, err)
	}
	fmt.Printf("Request %s is now %s\n", *id, target)
	return 0
}

func (a *app) addEmployee(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("add-employee", flag.ExitOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "initial password")
	salary := fs.String("salary", "", "annual salary")
	missed := fs.Int("missed", 0, "missed days")
	fs.Parse(args)

	if ok, code := a.requireAdmin(ctx); !ok {
		return code
	}

	sal, err := decimal.NewFromString(*salary)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid salary:", err)
		return 2
	}
	result, err := a.records.SaveEmployee(ctx, "", employee.SaveRequest{
		FirstName:  *first,
		LastName:   *last,
		Email:      *email,
		Password:   *password,
		Salary:     sal,
		MissedDays: *missed,
	})
	if err != nil {
		if errors.Is(err, employee.ErrIdentityWithoutRecord) {
			fmt.Fprintln(os.Stderr, "Sign-in account was created but the employee record was not saved. Retry the edit once the service is reachable.")
			return 1
		}
		return a.fail(ctx, err)
	}
	if result.Offline {
		fmt.Printf("Service unreachable, saved %s locally as %s\n", result.Employee.FullName(), result.Employee.ID)
		return 0
	}
	fmt.Printf("Added %s as %s\n", result.Employee.FullName(), result.Employee.ID)
	return 0
}

func (a *app) editEmployee(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("edit-employee", flag.ExitOnError)
	id := fs.String("id", "", "employee id")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	salary := fs.String("salary", "", "annual salary")
	missed := fs.Int("missed", -1, "missed days")
	fs.Parse(args)

	if ok, code := a.requireAdmin(ctx); !ok {
		return code
	}

	current, err := a.records.GetEmployee(ctx, *id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			fmt.Fprintf(os.Stderr, "Employee %s was not found\n", *id)
			return 1
		}
		return a.fail(ctx, err)
	}

	req := employee.SaveRequest{
		FirstName:  current.FirstName,
		LastName:   current.LastName,
		Salary:     current.Salary,
		MissedDays: current.MissedDays,
	}
	if *first != "" {
		req.FirstName = *first
	}
	if *last != "" {
		req.LastName = *last
	}
	if *salary != "" {
		sal, err := decimal.NewFromString(*salary)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Invalid salary:", err)
			return 2
		}
		req.Salary = sal
	}
	if *missed >= 0 {
		req.MissedDays = *missed
	}

	result, err := a.records.SaveEmployee(ctx, *id, req)
	if err != nil {
		return a.fail(ctx, err)
	}
	fmt.Printf("Updated %s\n", result.Employee.FullName())
	return 0
}

func (a *app) report(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	typ := fs.String("type", "", "EmployeeList, LeaveSummary or PendingLeaves")
	out := fs.String("out", ".", "directory to write the report into")
	fs.Parse(args)

	tmp, err := os.CreateTemp(*out, "report-*.csv")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	filename, err := a.reports.Generate(ctx, report.Type(*typ), tmp)
	tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		if errors.Is(err, report.ErrUnknownType) {
			fmt.Fprintln(os.Stderr, "Unknown report type:", *typ)
			return 2
		}
		if errors.Is(err, report.ErrNotAuthorized) {
			fmt.Fprintln(os.Stderr, "Report generation requires an administrator session")
			return 1
		}
		return a.fail(ctx, err)
	}

	dest := filepath.Join(*out, filename)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	fmt.Println("Wrote", dest)
	return 0
}

// fail prints service errors the way page scripts surface them. An expired
// session sends the user back to sign-in.
func (a *app) fail(ctx context.Context, err error) int {
	switch {
	case errors.Is(err, session.ErrSessionExpired):
		fmt.Fprintln(os.Stderr, "Your session has expired. Please sign in again.")
	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(os.Stderr, "Please sign in first.")
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return 1
}

func printLeaves(reqs []leave.Request) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMPLOYEE\tSTART\tEND\tDAYS\tSTATUS")
	for _, r := range reqs {
		name := r.EmployeeName
		if name == "" {
			name = "N/A"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", r.RequestID, name, r.StartDate, r.EndDate, r.TotalDays, r.Status)
	}
	w.Flush()
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
