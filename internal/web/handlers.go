// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coursebid/coursebid/internal/identity"
	"github.com/coursebid/coursebid/internal/observability"
	"github.com/coursebid/coursebid/pkg/errutil"
)

// Fixed user-facing failure messages. The platform front end renders
// these verbatim, so they must stay stable.
const (
	msgMissingFields      = "missing fields"
	msgPasswordMismatch   = "passwords do not match"
	msgInvalidYear        = "invalid year"
	msgInvalidID          = "invalid student id"
	msgAlreadyRegistered  = "id already registered"
	msgInvalidCredentials = "invalid credentials"
	msgAccessDenied       = "access denied"
	msgInternal           = "internal error"
)

type signupRequest struct {
	StudentID       string `json:"studentId"`
	Name            string `json:"name"`
	Department      string `json:"department"`
	Grade           string `json:"grade"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type loginRequest struct {
	StudentID string `json:"studentId"`
	Password  string `json:"password"`
}

type accountResponse struct {
	StudentID   int64  `json:"studentId"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Grade       int    `json:"grade"`
	CreditLimit int    `json:"creditLimit"`
	PointLimit  int    `json:"pointLimit"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(observability.OutcomeInvalid).Inc()
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	account, err := s.registry.Register(r.Context(), identity.RegisterInput{
		ID:            req.StudentID,
		Name:          req.Name,
		Department:    req.Department,
		Year:          req.Grade,
		Secret:        req.Password,
		SecretConfirm: req.PasswordConfirm,
	})
	if err != nil {
		status, message, outcome := signupFailure(err)
		if outcome == observability.OutcomeError {
			errutil.LogError(s.logger, "signup failed", err)
		}
		s.metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
		writeError(w, status, message)
		return
	}

	s.metrics.RegistrationsTotal.WithLabelValues(observability.OutcomeSuccess).Inc()
	writeJSON(w, http.StatusCreated, accountView(account))
}

// signupFailure maps a registration error onto the HTTP status, the
// user-facing message, and the metric outcome label.
func signupFailure(err error) (int, string, string) {
	switch {
	case errors.Is(err, identity.ErrMissingField):
		return http.StatusBadRequest, msgMissingFields, observability.OutcomeInvalid
	case errors.Is(err, identity.ErrPasswordMismatch):
		return http.StatusBadRequest, msgPasswordMismatch, observability.OutcomeInvalid
	case errors.Is(err, identity.ErrInvalidYear):
		return http.StatusBadRequest, msgInvalidYear, observability.OutcomeInvalid
	case errors.Is(err, identity.ErrInvalidID):
		return http.StatusBadRequest, msgInvalidID, observability.OutcomeInvalid
	case errors.Is(err, identity.ErrConflict):
		return http.StatusConflict, msgAlreadyRegistered, observability.OutcomeConflict
	default:
		return http.StatusInternalServerError, msgInternal, observability.OutcomeError
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.metrics.LoginsTotal.WithLabelValues(observability.OutcomeInvalid).Inc()
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	account, err := s.verifier.Login(r.Context(), req.StudentID, req.Password)
	if err != nil {
		errutil.LogError(s.logger, "login failed", err)
		s.metrics.LoginsTotal.WithLabelValues(observability.OutcomeError).Inc()
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if account == nil {
		s.metrics.LoginsTotal.WithLabelValues(observability.OutcomeFailure).Inc()
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := s.sessions.Create(r.Context(), account.ID)
	if err != nil {
		errutil.LogError(s.logger, "session create failed", err)
		s.metrics.LoginsTotal.WithLabelValues(observability.OutcomeError).Inc()
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	http.SetCookie(w, sessionCookie(token, 0))
	s.metrics.LoginsTotal.WithLabelValues(observability.OutcomeSuccess).Inc()
	writeJSON(w, http.StatusOK, accountView(account))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if revokeErr := s.sessions.Revoke(r.Context(), cookie.Value); revokeErr != nil {
			errutil.LogError(s.logger, "session revoke failed", revokeErr)
		}
	}
	// Logout is idempotent: clear the cookie whether or not a session
	// existed.
	http.SetCookie(w, sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	account, err := s.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			// The account vanished after the session was issued.
			writeError(w, http.StatusUnauthorized, msgAccessDenied)
			return
		}
		errutil.LogError(s.logger, "account lookup failed", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, accountView(account))
}

func accountView(a *identity.Account) accountResponse {
	return accountResponse{
		StudentID:   a.ID,
		Name:        a.DisplayName,
		Department:  a.Department,
		Grade:       a.Year,
		CreditLimit: a.CreditLimit,
		PointLimit:  a.PointLimit,
	}
}

func sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
