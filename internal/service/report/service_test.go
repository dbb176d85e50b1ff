package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/leavedesk-go/internal/fixtures"
	"github.com/staffdesk/leavedesk-go/internal/pkg/remote"
	"github.com/staffdesk/leavedesk-go/internal/pkg/statestore"
	"github.com/staffdesk/leavedesk-go/internal/repository/mirror"
	"github.com/staffdesk/leavedesk-go/internal/service/access"
	"github.com/staffdesk/leavedesk-go/internal/service/records"
	sessionsvc "github.com/staffdesk/leavedesk-go/internal/service/session"
)

// newTestService wires reports over seeded mirror data with no reachable
// backend; the facade serves every read from the mirror.
func newTestService(t *testing.T, loginAdmin bool) *Service {
	t.Helper()
	ctx := context.Background()

	state, err := statestore.Open("file:" + filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { state.Close() })
	require.NoError(t, fixtures.EnsureSeed(ctx, state))

	factory := &remote.Factory{BaseURL: "http://127.0.0.1:1"}
	sessions, err := sessionsvc.NewStore(state, factory, "admin@company.com", "admin123", nil)
	require.NoError(t, err)
	if loginAdmin {
		_, err = sessions.Login(ctx, "admin@company.com", "admin123")
		require.NoError(t, err)
	}

	guard := access.NewGuard(sessions)
	recordsSvc := records.NewService(
		sessions,
		factory,
		mirror.NewEmployeeRepository(state),
		mirror.NewLeaveRepository(state),
		nil,
	)
	return NewService(guard, recordsSvc)
}

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestGenerateEmployeeList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)

	var buf bytes.Buffer
	filename, err := svc.Generate(ctx, TypeEmployeeList, &buf)
	require.NoError(t, err)
	assert.Equal(t, "Employee_List.csv", filename)

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Name", "Email", "Role", "Salary", "MissedDays"}, rows[0])
	assert.Equal(t, []string{"emp-001", "Alice Johnson", "alice@company.com", "Employee", "60000", "5"}, rows[1])
	assert.Equal(t, []string{"emp-002", "Bob Smith", "bob@company.com", "Employee", "75000", "2"}, rows[2])
}

func TestGenerateLeaveSummary(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)

	var buf bytes.Buffer
	filename, err := svc.Generate(ctx, TypeLeaveSummary, &buf)
	require.NoError(t, err)
	assert.Equal(t, "All_Leave_Summary.csv", filename)

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Employee", "StartDate", "EndDate", "TotalDays", "Status"}, rows[0])
	// The seed mixes status shapes; the report shows only canonical values.
	assert.Equal(t, "PENDING", rows[1][5])
	assert.Equal(t, "APPROVED", rows[2][5])
}

func TestGeneratePendingLeaves(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)

	var buf bytes.Buffer
	filename, err := svc.Generate(ctx, TypePendingLeaves, &buf)
	require.NoError(t, err)
	assert.Equal(t, "Pending_Leave_Summary.csv", filename)

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, "101", rows[1][0])
	assert.Equal(t, "PENDING", rows[1][5])
}

func TestGenerateAuthorization(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		svc := newTestService(t, false)
		var buf bytes.Buffer
		_, err := svc.Generate(ctx, TypeEmployeeList, &buf)
		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Zero(t, buf.Len())
	})

	t.Run("unknown type", func(t *testing.T) {
		svc := newTestService(t, true)
		var buf bytes.Buffer
		_, err := svc.Generate(ctx, Type("Payroll"), &buf)
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}
