package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/domain/session"
	"github.com/staffdesk/leavedesk-go/internal/pkg/remote"
	"github.com/staffdesk/leavedesk-go/internal/pkg/statestore"
	"github.com/staffdesk/leavedesk-go/internal/repository/api"
)

// Persisted state keys. A page reload (here: a new process over the same
// state file) must observe the latest session, so every mutation writes
// through before returning.
const (
	keyCurrentUser    = "currentUser"
	keyAuthToken      = "authToken"
	keyIsAdminSession = "isAdminSession"
)

const adminUserID = "admin-001"

type StoreImpl struct {
	state      *statestore.Store
	factory    *remote.Factory
	adminEmail string
	adminHash  []byte
	logger     *slog.Logger
}

// NewStore builds the session store. The admin credential pair is held
// client-side; the password is hashed once here and only compared, never
// kept in clear.
func NewStore(state *statestore.Store, factory *remote.Factory, adminEmail, adminPassword string, logger *slog.Logger) (session.Store, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreImpl{
		state:      state,
		factory:    factory,
		adminEmail: adminEmail,
		adminHash:  hash,
		logger:     logger,
	}, nil
}

// Login implements session.Store.
func (s *StoreImpl) Login(ctx context.Context, email, password string) (session.Session, error) {
	if strings.EqualFold(strings.TrimSpace(email), s.adminEmail) {
		return s.loginAdmin(ctx, password)
	}
	return s.loginEmployee(ctx, email, password)
}

func (s *StoreImpl) loginAdmin(ctx context.Context, password string) (session.Session, error) {
	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)); err != nil {
		return nil, session.ErrInvalidCredentials
	}
	sess := session.AdminSession{Account: session.User{
		ID:        adminUserID,
		FirstName: "System",
		LastName:  "Administrator",
		Email:     s.adminEmail,
		Role:      employee.RoleAdmin,
	}}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("admin session established", "email", s.adminEmail)
	return sess, nil
}

func (s *StoreImpl) loginEmployee(ctx context.Context, email, password string) (session.Session, error) {
	authAPI := api.NewAuthAPI(s.factory.Anonymous())
	token, user, err := authAPI.Login(ctx, email, password)
	if err != nil {
		// The prior session, if any, stays untouched.
		return nil, err
	}
	// Role is client-asserted for employee logins regardless of what the
	// backend returned.
	user.Role = employee.RoleEmployee
	sess := session.EmployeeSession{Token: token, Account: user}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("employee session established", "email", email)
	return sess, nil
}

// Current implements session.Store.
func (s *StoreImpl) Current(ctx context.Context) (session.Session, error) {
	userJSON, ok, err := s.state.Get(ctx, keyCurrentUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, session.ErrNoSession
	}
	var user session.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, session.ErrNoSession
	}

	if _, isAdmin, err := s.state.Get(ctx, keyIsAdminSession); err != nil {
		return nil, err
	} else if isAdmin {
		return session.AdminSession{Account: user}, nil
	}

	token, hasToken, err := s.state.Get(ctx, keyAuthToken)
	if err != nil {
		return nil, err
	}
	if !hasToken || token == "" {
		// A user without a matching token on a non-admin session is
		// inconsistent state, not a session.
		return nil, session.ErrNoSession
	}
	return session.EmployeeSession{Token: token, Account: user}, nil
}

// Logout implements session.Store.
func (s *StoreImpl) Logout(ctx context.Context) error {
	sess, err := s.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return s.Clear(ctx)
		}
		return err
	}

	switch sess.(type) {
	case session.EmployeeSession:
		authAPI := api.NewAuthAPI(s.factory.ClientFor(sess))
		if err := authAPI.Logout(ctx); err != nil {
			// Best effort: the local session is cleared either way.
			s.logger.Warn("remote token invalidation failed", "error", err)
		}
	case session.AdminSession:
		// Locally asserted; nothing to invalidate remotely.
	}
	return s.Clear(ctx)
}

// Clear implements session.Store.
func (s *StoreImpl) Clear(ctx context.Context) error {
	return s.state.Delete(ctx, keyCurrentUser, keyAuthToken, keyIsAdminSession)
}

func (s *StoreImpl) persist(ctx context.Context, sess session.Session) error {
	userJSON, err := json.Marshal(sess.User())
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.state.Set(ctx, keyCurrentUser, string(userJSON)); err != nil {
		return err
	}
	switch v := sess.(type) {
	case session.EmployeeSession:
		if err := s.state.Set(ctx, keyAuthToken, v.Token); err != nil {
			return err
		}
		return s.state.Delete(ctx, keyIsAdminSession)
	case session.AdminSession:
		if err := s.state.Set(ctx, keyIsAdminSession, "true"); err != nil {
			return err
		}
		return s.state.Delete(ctx, keyAuthToken)
	default:
		return fmt.Errorf("unknown session variant %T", sess)
	}
}
