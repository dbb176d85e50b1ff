package stubserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/signup", s.handleSignup)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.tokenAuth))
		r.Use(s.requireToken)
		r.Post("/api/auth/logout", s.handleLogout)
	})

	// Collection endpoints verify a bearer token when one is presented but
	// do not demand one: the admin session carries no token at all.
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.tokenAuth))
		r.Use(s.verifyTokenIfPresent)

		r.Get("/employees", s.handleListEmployees)
		r.Post("/employees", s.handleCreateEmployee)
		r.Put("/employees/{id}", s.handleUpdateEmployee)

		r.Get("/leave-requests", s.handleListLeaves)
		r.Post("/leave-requests", s.handleCreateLeave)
		r.Post("/leave-requests/{id}/approve", s.handleApproveLeave)
		r.Post("/leave-requests/{id}/reject", s.handleRejectLeave)
	})

	return r
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil || s.isRevoked(r) {
			writeError(w, http.StatusUnauthorized, "A valid bearer token is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) verifyTokenIfPresent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, err := jwtauth.FromContext(r.Context())
		if err != nil && !errors.Is(err, jwtauth.ErrNoTokenFound) {
			writeError(w, http.StatusUnauthorized, "Bearer token is invalid or expired")
			return
		}
		if err == nil && s.isRevoked(r) {
			writeError(w, http.StatusUnauthorized, "Bearer token has been revoked")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) isRevoked(r *http.Request) bool {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, revoked := s.revoked[token]
	return revoked
}

func pathParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
