package handlers

import (
	"net/http"
	"time"

	"github.com/TWRT/savvystudy/internal/service"
)

type CredentialsRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func loginResponse(res *service.LoginResult) map[string]interface{} {
	return map[string]interface{}{
		"token":      res.Token,
		"expires_at": res.ExpiresAt.UTC().Format(time.RFC3339),
		"user":       res.User,
	}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var body CredentialsRequestBody
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := h.authService.SignUp(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, "Sign-up failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, loginResponse(res))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body CredentialsRequestBody
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := h.authService.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, "Login failed", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse(res))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout(session(r))
	w.WriteHeader(http.StatusNoContent)
}
