// Package stubserver is a self-contained fake of the remote record-keeping
// service: the same REST surface over in-memory collections, with bearer
// tokens issued at login and legacy-shaped leave records in its seed data.
// It backs local development and the integration tests.
package stubserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffdesk/leavedesk-go/internal/domain/employee"
	"github.com/staffdesk/leavedesk-go/internal/domain/leave"
	"github.com/staffdesk/leavedesk-go/internal/fixtures"
)

type account struct {
	ID           string
	FirstName    string
	LastName     string
	PasswordHash []byte
}

type Server struct {
	tokenAuth *jwtauth.JWTAuth
	tokenTTL  time.Duration
	logger    *slog.Logger

	mu        sync.Mutex
	accounts  map[string]account
	employees []employee.Employee
	leaves    []leave.Record
	revoked   map[string]struct{}
	nextID    int
}

func New(jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		tokenAuth: jwtauth.New("HS256", []byte(jwtSecret), nil, jwt.WithAcceptableSkew(30*time.Second)),
		tokenTTL:  tokenTTL,
		logger:    logger,
		accounts:  make(map[string]account),
		revoked:   make(map[string]struct{}),
		nextID:    1000,
	}
	s.seed()
	return s
}

// seed loads the demo collections. The leave records intentionally span all
// three historical status shapes.
func (s *Server) seed() {
	s.employees = fixtures.DefaultEmployees()
	s.leaves = []leave.Record{
		{RequestID: "101", EmployeeID: "emp-001", EmployeeName: "Alice Johnson", StartDate: "2025-10-01", EndDate: "2025-10-05", TotalDays: 5, Status: "Pending"},
		{RequestID: "102", EmployeeID: "emp-002", EmployeeName: "Bob Smith", StartDate: "2025-08-11", EndDate: "2025-08-12", TotalDays: 2, Approved: true},
		{RequestID: "103", EmployeeID: "emp-001", EmployeeName: "Alice Johnson", StartDate: "2025-07-01", EndDate: "2025-07-03", TotalDays: 3, Status: "REJECTED"},
	}

	seedAccounts := []struct {
		email, password, id, first, last string
	}{
		{"alice@company.com", "admin", "emp-001", "Alice", "Johnson"},
		{"bob@company.com", "password", "emp-002", "Bob", "Smith"},
	}
	for _, sa := range seedAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(sa.password), bcrypt.DefaultCost)
		if err != nil {
			panic("seed password hash: " + err.Error())
		}
		s.accounts[sa.email] = account{ID: sa.id, FirstName: sa.first, LastName: sa.last, PasswordHash: hash}
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError uses the flat {"error": "..."} shape the browser client always
// consumed.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// --- auth handlers ---

type credentialsPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	claims := map[string]any{
		"sub":       acct.ID,
		"email":     req.Email,
		"firstName": acct.FirstName,
		"lastName":  acct.LastName,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}
	_, token, err := s.tokenAuth.Encode(claims)
	if err != nil {
		s.logger.Error("token encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":        acct.ID,
			"firstName": acct.FirstName,
			"lastName":  acct.LastName,
			"email":     req.Email,
			"role":      string(employee.RoleEmployee),
		},
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store credentials")
		return
	}
	s.nextID++
	s.accounts[req.Email] = account{
		ID:           "emp-" + strconv.Itoa(s.nextID),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	writeJSON(w, http.StatusCreated, map[string]string{"email": req.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := jwtauth.TokenFromHeader(r)
	s.mu.Lock()
	s.revoked[token] = struct{}{}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// --- employee handlers ---

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	emps := make([]employee.Employee, len(s.employees))
	copy(emps, s.employees)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, emps)
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := s.decodeEmployee(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	s.nextID++
	emp.ID = "emp-" + strconv.Itoa(s.nextID)
	emp.Role = employee.RoleEmployee
	s.employees = append(s.employees, emp)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, emp)
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	emp, ok := s.decodeEmployee(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID != id {
			continue
		}
		s.employees[i].FirstName = emp.FirstName
		s.employees[i].LastName = emp.LastName
		s.employees[i].Salary = emp.Salary
		s.employees[i].MissedDays = emp.MissedDays
		writeJSON(w, http.StatusOK, s.employees[i])
		return
	}
	writeError(w, http.StatusNotFound, "Employee not found")
}

func (s *Server) decodeEmployee(w http.ResponseWriter, r *http.Request) (employee.Employee, bool) {
	var emp employee.Employee
	if err := json.NewDecoder(r.Body).Decode(&emp); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return employee.Employee{}, false
	}
	if emp.FirstName == "" || emp.LastName == "" {
		writeError(w, http.StatusBadRequest, "firstName and lastName are required")
		return employee.Employee{}, false
	}
	return emp, true
}

// --- leave handlers ---

func (s *Server) handleListLeaves(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	recs := make([]leave.Record, len(s.leaves))
	copy(recs, s.leaves)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleCreateLeave(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := leave.Record{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		TotalDays: leave.TotalDays(req.StartDate, req.EndDate),
		Status:    string(leave.StatusPending),
	}
	// Attribute the request to the token's subject when one was presented.
	if _, claims, err := jwtauth.FromContext(r.Context()); err == nil {
		if sub, _ := claims["sub"].(string); sub != "" {
			rec.EmployeeID = sub
			first, _ := claims["firstName"].(string)
			last, _ := claims["lastName"].(string)
			rec.EmployeeName = first + " " + last
		}
	}

	s.mu.Lock()
	s.nextID++
	rec.RequestID = strconv.Itoa(s.nextID)
	s.leaves = append(s.leaves, rec)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleApproveLeave(w http.ResponseWriter, r *http.Request) {
	s.setLeaveStatus(w, pathParam(r, "id"), leave.StatusApproved)
}

func (s *Server) handleRejectLeave(w http.ResponseWriter, r *http.Request) {
	s.setLeaveStatus(w, pathParam(r, "id"), leave.StatusRejected)
}

func (s *Server) setLeaveStatus(w http.ResponseWriter, id string, status leave.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leaves {
		if s.leaves[i].RequestID != id {
			continue
		}
		s.leaves[i].Status = string(status)
		s.leaves[i].Approved = status == leave.StatusApproved
		writeJSON(w, http.StatusOK, s.leaves[i])
		return
	}
	writeError(w, http.StatusNotFound, "Leave request not found")
}
