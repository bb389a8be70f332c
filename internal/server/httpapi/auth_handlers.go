package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/tasklist/internal/common"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Message          string `json:"message"`
	Token            string `json:"token"`
	TokenType        string `json:"token_type"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		s.writeError(w, r, fmt.Errorf("%w: email and password are required", common.ErrorValidation))
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully.",
		UserID:  user.ID,
		Email:   user.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeLoginError(w, r, err)
		return
	}

	s.writeToken(w, result.Token, result.ExpiresInMinutes)
}

func (s *Server) handleLoginUsername(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.users.LoginByUsername(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeLoginError(w, r, err)
		return
	}

	s.writeToken(w, result.Token, result.ExpiresInMinutes)
}

// writeLoginError keeps unknown identifiers and wrong passwords
// indistinguishable, so the endpoint cannot be used to enumerate accounts.
func (s *Server) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Invalid email/username or password"})
		return
	}
	s.writeError(w, r, err)
}

func (s *Server) writeToken(w http.ResponseWriter, token string, expiresInMinutes int) {
	writeJSON(w, http.StatusOK, tokenResponse{
		Message:          "Login successful.",
		Token:            token,
		TokenType:        "bearer",
		ExpiresInMinutes: expiresInMinutes,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponse(userFrom(r)))
}
