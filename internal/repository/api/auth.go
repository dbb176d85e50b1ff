package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/staffdesk/leavedesk-go/internal/domain/session"
	"github.com/staffdesk/leavedesk-go/internal/pkg/remote"
)

// AuthAPI talks to the remote auth endpoints. Login and signup take no
// credentials beyond the payload; logout requires the client to carry the
// bearer token being invalidated.
type AuthAPI struct {
	client *remote.Client
}

func NewAuthAPI(client *remote.Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// Login exchanges credentials for a bearer token and the user record. A 401
// here means the credentials were rejected, not that a token expired.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (string, session.User, error) {
	var resp loginResponse
	err := a.client.Post(ctx, "/api/auth/login", loginPayload{Email: email, Password: password}, &resp)
	if err != nil {
		if errors.Is(err, remote.ErrAuthExpired) {
			return "", session.User{}, session.ErrInvalidCredentials
		}
		return "", session.User{}, err
	}
	if resp.Token == "" {
		return "", session.User{}, fmt.Errorf("%w: login response without token", remote.ErrUnavailable)
	}
	return resp.Token, resp.User, nil
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Signup creates the authentication identity for a new employee.
func (a *AuthAPI) Signup(ctx context.Context, req SignupRequest) error {
	return a.client.Post(ctx, "/api/auth/signup", req, nil)
}

// Logout invalidates the bearer token carried by the client.
func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.client.Post(ctx, "/api/auth/logout", nil, nil)
}
