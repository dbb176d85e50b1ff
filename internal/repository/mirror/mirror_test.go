package mirror

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/domain/leave"
	"github.com/staffdesk/leavedesk-go/internal/pkg/statestore"
)

func openTestStore(t *testing.T) *statestore.Store {
	t.Helper()
	store, err := statestore.Open("file:" + filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(openTestStore(t))

	t.Run("list on empty mirror", func(t *testing.T) {
		emps, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, emps)
		assert.NotNil(t, emps)
	})

	t.Run("create assigns local identifier and role", func(t *testing.T) {
		created, err := repo.Create(ctx, employee.Employee{
			FirstName: "Carol",
			LastName:  "White",
			Salary:    decimal.NewFromInt(50000),
		})
		require.NoError(t, err)
		assert.True(t, len(created.ID) > len("emp-"))
		assert.Contains(t, created.ID, "emp-")
		assert.Equal(t, employee.RoleEmployee, created.Role)

		emps, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, emps, 1)
		assert.Equal(t, created.ID, emps[0].ID)
	})

	t.Run("create keeps a remote-assigned identifier", func(t *testing.T) {
		created, err := repo.Create(ctx, employee.Employee{ID: "emp-777", FirstName: "Dan", LastName: "Green"})
		require.NoError(t, err)
		assert.Equal(t, "emp-777", created.ID)
	})

	t.Run("update merges fields", func(t *testing.T) {
		updated, err := repo.Update(ctx, "emp-777", employee.SaveRequest{
			FirstName:  "Daniel",
			LastName:   "Green",
			Salary:     decimal.NewFromInt(61000),
			MissedDays: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, "Daniel", updated.FirstName)
		assert.Equal(t, 3, updated.MissedDays)
		assert.True(t, updated.Salary.Equal(decimal.NewFromInt(61000)))
	})

	t.Run("update keeps email when not supplied", func(t *testing.T) {
		require.NoError(t, repo.Replace(ctx, []employee.Employee{
			{ID: "emp-001", FirstName: "Alice", LastName: "Johnson", Email: "alice@company.com"},
		}))
		updated, err := repo.Update(ctx, "emp-001", employee.SaveRequest{FirstName: "Alicia", LastName: "Johnson"})
		require.NoError(t, err)
		assert.Equal(t, "alice@company.com", updated.Email)
	})

	t.Run("update of unknown employee", func(t *testing.T) {
		_, err := repo.Update(ctx, "emp-missing", employee.SaveRequest{FirstName: "X", LastName: "Y"})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestLeaveRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRepository(openTestStore(t))

	t.Run("list on empty mirror", func(t *testing.T) {
		recs, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, recs)
		assert.NotNil(t, recs)
	})

	t.Run("create assigns local identifier", func(t *testing.T) {
		created, err := repo.Create(ctx, leave.Record{
			EmployeeID: "emp-001",
			StartDate:  "2025-10-01",
			EndDate:    "2025-10-05",
			Status:     string(leave.StatusPending),
		})
		require.NoError(t, err)
		assert.Contains(t, created.RequestID, "req-")
	})

	t.Run("set status updates both shapes", func(t *testing.T) {
		require.NoError(t, repo.Replace(ctx, []leave.Record{
			{RequestID: "101", Status: "Pending"},
			{RequestID: "102", Approved: true},
		}))

		require.NoError(t, repo.SetStatus(ctx, "101", leave.StatusApproved))
		recs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, string(leave.StatusApproved), recs[0].Status)
		assert.True(t, recs[0].Approved)

		require.NoError(t, repo.SetStatus(ctx, "102", leave.StatusRejected))
		recs, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, string(leave.StatusRejected), recs[1].Status)
		assert.False(t, recs[1].Approved)
	})

	t.Run("set status on unknown request", func(t *testing.T) {
		err := repo.SetStatus(ctx, "999", leave.StatusApproved)
		assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
	})

	t.Run("records keep their stored shape", func(t *testing.T) {
		require.NoError(t, repo.Replace(ctx, []leave.Record{
			{RequestID: "201", Status: "Pending"},
			{RequestID: "202", Approved: true},
		}))
		recs, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Pending", recs[0].Status)
		assert.Empty(t, recs[1].Status)
		assert.True(t, recs[1].Approved)
	})
}
