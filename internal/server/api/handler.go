package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dsmirnov/authd/internal/common"
)

type registerRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionRequest struct {
	SessionToken string `json:"session_token"`
}

type forgotPasswordRequest struct {
	Username string `json:"username"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type tokenResponse struct {
	Token        string `json:"token"`
	SessionToken string `json:"session_token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" || req.Name == "" {
		s.writeBadRequest(w, "username, password and name are required")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password, req.Name, req.Email, req.Phone)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// log the caller in right away so a separate login round trip is not needed
	pair, err := s.auth.Login(r.Context(), user.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{Token: pair.AccessToken, SessionToken: pair.SessionToken})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{Token: pair.AccessToken, SessionToken: pair.SessionToken})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}

	pair, err := s.auth.Refresh(r.Context(), req.SessionToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{Token: pair.AccessToken, SessionToken: pair.SessionToken})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.auth.Logout(r.Context(), req.SessionToken); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {

	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.auth.ForgotPassword(r.Context(), req.Username); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {

	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		s.writeBadRequest(w, "token and new_password are required")
		return
	}

	if err := s.auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// --- response helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeBadRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// writeError maps domain errors to statuses. Anything unrecognized is an
// internal fault: logged with detail, surfaced as a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, common.ErrInvalidToken):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
	case errors.Is(err, common.ErrUserAlreadyExists):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user already exists"})
	case errors.Is(err, common.ErrUserNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
	default:
		s.logger.Error(r.Context(), "request failed", "request_id", requestID(r.Context()), "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
