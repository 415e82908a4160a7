package httpapi

import (
	"net/http"
)

type registerRequest struct {
	UserName        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type registerResponse struct {
	ID int64 `json:"id"`
}

type loginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	UserName string `json:"username"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.deps.Accounts.SignUp(r.Context(), req.UserName, req.Password, req.ConfirmPassword)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{ID: id})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientAddr(r)) {
		writeMessage(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.deps.Accounts.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token, UserID: res.UserID, UserName: res.UserName})
}
