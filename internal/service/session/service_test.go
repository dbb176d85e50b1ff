package session

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	domain "github.com/staffdesk/leavedesk-go/internal/domain/session"
	"github.com/staffdesk/leavedesk-go/internal/pkg/remote"
	"github.com/staffdesk/leavedesk-go/internal/pkg/statestore"
	"github.com/staffdesk/leavedesk-go/internal/stubserver"
)

const (
	testAdminEmail    = "admin@company.com"
	testAdminPassword = "admin123"
)

func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()
	stub := stubserver.New("test-secret", time.Hour, nil)
	srv := httptest.NewServer(stub.Router())
	t.Cleanup(srv.Close)
	return srv
}

func newTestStore(t *testing.T, baseURL string) (domain.Store, *statestore.Store) {
	t.Helper()
	state, err := statestore.Open("file:" + filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { state.Close() })
	return newStoreOver(t, state, baseURL), state
}

func newStoreOver(t *testing.T, state *statestore.Store, baseURL string) domain.Store {
	t.Helper()
	store, err := NewStore(state, &remote.Factory{BaseURL: baseURL}, testAdminEmail, testAdminPassword, nil)
	require.NoError(t, err)
	return store
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)
	store, state := newTestStore(t, backend.URL)

	t.Run("valid credentials establish an admin session", func(t *testing.T) {
		sess, err := store.Login(ctx, testAdminEmail, testAdminPassword)
		require.NoError(t, err)

		admin, ok := sess.(domain.AdminSession)
		require.True(t, ok)
		assert.Equal(t, "admin-001", admin.Account.ID)
		assert.Equal(t, "System Administrator", admin.Account.FullName())
		assert.Equal(t, employee.RoleAdmin, admin.Account.Role)
	})

	t.Run("no token is persisted", func(t *testing.T) {
		_, hasToken, err := state.Get(ctx, "authToken")
		require.NoError(t, err)
		assert.False(t, hasToken)

		flag, ok, err := state.Get(ctx, "isAdminSession")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "true", flag)
	})

	t.Run("email match is case-insensitive", func(t *testing.T) {
		sess, err := store.Login(ctx, "Admin@Company.COM", testAdminPassword)
		require.NoError(t, err)
		_, ok := sess.(domain.AdminSession)
		assert.True(t, ok)
	})

	t.Run("wrong password is rejected without touching the session", func(t *testing.T) {
		_, err := store.Login(ctx, testAdminEmail, "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		sess, err := store.Current(ctx)
		require.NoError(t, err)
		_, ok := sess.(domain.AdminSession)
		assert.True(t, ok)
	})
}

func TestEmployeeLogin(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)
	store, state := newTestStore(t, backend.URL)

	t.Run("valid credentials establish an employee session", func(t *testing.T) {
		sess, err := store.Login(ctx, "alice@company.com", "admin")
		require.NoError(t, err)

		emp, ok := sess.(domain.EmployeeSession)
		require.True(t, ok)
		assert.NotEmpty(t, emp.Token)
		assert.Equal(t, "emp-001", emp.Account.ID)
		assert.Equal(t, "Alice Johnson", emp.Account.FullName())
		assert.Equal(t, employee.RoleEmployee, emp.Account.Role)
	})

	t.Run("token is persisted and admin flag is not", func(t *testing.T) {
		token, ok, err := state.Get(ctx, "authToken")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotEmpty(t, token)

		_, isAdmin, err := state.Get(ctx, "isAdminSession")
		require.NoError(t, err)
		assert.False(t, isAdmin)
	})

	t.Run("rejected credentials keep the prior session", func(t *testing.T) {
		_, err := store.Login(ctx, "alice@company.com", "nope")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		sess, err := store.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "emp-001", sess.User().ID)
	})

	t.Run("unreachable backend surfaces unavailability", func(t *testing.T) {
		deadStore, _ := newTestStore(t, "http://127.0.0.1:1")
		_, err := deadStore.Login(ctx, "alice@company.com", "admin")
		assert.ErrorIs(t, err, remote.ErrUnavailable)
	})
}

func TestCurrentAcrossInstances(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)

	state, err := statestore.Open("file:" + filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer state.Close()

	first := newStoreOver(t, state, backend.URL)
	_, err = first.Login(ctx, "bob@company.com", "password")
	require.NoError(t, err)

	// A fresh store over the same state file sees the session, the way a
	// page reload would.
	second := newStoreOver(t, state, backend.URL)
	sess, err := second.Current(ctx)
	require.NoError(t, err)
	emp, ok := sess.(domain.EmployeeSession)
	require.True(t, ok)
	assert.Equal(t, "emp-002", emp.Account.ID)
	assert.NotEmpty(t, emp.Token)
}

func TestCurrentInconsistentState(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)
	store, state := newTestStore(t, backend.URL)

	t.Run("no session at all", func(t *testing.T) {
		_, err := store.Current(ctx)
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})

	t.Run("user without token is not a session", func(t *testing.T) {
		require.NoError(t, state.Set(ctx, "currentUser", `{"id":"emp-001","role":"Employee"}`))
		_, err := store.Current(ctx)
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})

	t.Run("unparseable user is not a session", func(t *testing.T) {
		require.NoError(t, state.Set(ctx, "currentUser", `{broken`))
		_, err := store.Current(ctx)
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("employee logout clears state even when revocation fails", func(t *testing.T) {
		backend := newTestBackend(t)
		store, state := newTestStore(t, backend.URL)
		_, err := store.Login(ctx, "alice@company.com", "admin")
		require.NoError(t, err)

		backend.Close()
		require.NoError(t, store.Logout(ctx))

		_, err = store.Current(ctx)
		assert.ErrorIs(t, err, domain.ErrNoSession)
		_, hasToken, err := state.Get(ctx, "authToken")
		require.NoError(t, err)
		assert.False(t, hasToken)
	})

	t.Run("admin logout is local only", func(t *testing.T) {
		// No backend at all; the admin session never talks to one.
		store, _ := newTestStore(t, "http://127.0.0.1:1")
		_, err := store.Login(ctx, testAdminEmail, testAdminPassword)
		require.NoError(t, err)

		require.NoError(t, store.Logout(ctx))
		_, err = store.Current(ctx)
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})

	t.Run("logout without a session is a no-op", func(t *testing.T) {
		store, _ := newTestStore(t, "http://127.0.0.1:1")
		assert.NoError(t, store.Logout(ctx))
	})

	t.Run("employee logout revokes the remote token", func(t *testing.T) {
		backend := newTestBackend(t)
		store, state := newTestStore(t, backend.URL)
		_, err := store.Login(ctx, "alice@company.com", "admin")
		require.NoError(t, err)

		token, _, err := state.Get(ctx, "authToken")
		require.NoError(t, err)
		require.NoError(t, store.Logout(ctx))

		// The revoked token is now rejected by the backend.
		client := remote.NewClient(backend.URL, token, nil)
		err = client.Get(ctx, "/employees", nil)
		assert.ErrorIs(t, err, remote.ErrAuthExpired)
	})
}
