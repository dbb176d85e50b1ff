package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/staffdesk/leavedesk-go/internal/domain/session"
)

var (
	// ErrAuthExpired reports an HTTP 401 on a call. What that means depends
	// on the session variant: fatal for an employee session, tolerable for
	// an admin session which never had a token to expire.
	ErrAuthExpired = errors.New("remote: authorization expired")
	// ErrUnavailable covers every other failure to reach or parse the
	// remote service: transport errors, non-2xx statuses, bad payloads.
	ErrUnavailable = errors.New("remote: service unavailable")
	// ErrUnreachable narrows ErrUnavailable to transport failures where no
	// response arrived at all. Offline-continuity writes key off this; a
	// server that answered with an error is not "offline".
	ErrUnreachable = fmt.Errorf("%w: host unreachable", ErrUnavailable)
)

const requestTimeout = 15 * time.Second

// Client performs authenticated calls against the record-keeping service.
// It never panics past its boundary; failures come back as errors wrapping
// the two sentinels above so callers can branch without inspecting HTTP
// details.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client for the given base URL. When token is non-empty
// every request carries it as an Authorization bearer header via an oauth2
// static token source.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{Timeout: requestTimeout}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, src)
		// oauth2.NewClient carries over only the transport, not the
		// timeout; set it again on the wrapping client.
		httpClient.Timeout = requestTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("remote call failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s", ErrAuthExpired, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := apiErrorMessage(resp.Body)
		c.logger.Warn("remote call rejected", "method", method, "path", path, "status", resp.StatusCode, "message", msg)
		if msg != "" {
			return fmt.Errorf("%w: %s: %s", ErrUnavailable, resp.Status, msg)
		}
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

// apiErrorMessage extracts a human-readable message from an error payload.
// Backend revisions used both a flat {"error": "..."} shape and an
// envelope with a nested error object.
func apiErrorMessage(body io.Reader) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 1<<16)).Decode(&payload); err != nil {
		return ""
	}
	if len(payload.Error) > 0 {
		var flat string
		if err := json.Unmarshal(payload.Error, &flat); err == nil {
			return flat
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil {
			return nested.Message
		}
	}
	return payload.Message
}

// Factory builds clients bound to the active session variant.
type Factory struct {
	BaseURL string
	Logger  *slog.Logger
}

// ClientFor attaches the bearer token exactly when the session carries one.
// Admin sessions and anonymous calls go out without an Authorization header.
func (f *Factory) ClientFor(sess session.Session) *Client {
	switch s := sess.(type) {
	case session.EmployeeSession:
		return NewClient(f.BaseURL, s.Token, f.Logger)
	default:
		return NewClient(f.BaseURL, "", f.Logger)
	}
}

// Anonymous returns a client with no credentials, for endpoints that take
// none (login, signup).
func (f *Factory) Anonymous() *Client {
	return NewClient(f.BaseURL, "", f.Logger)
}
