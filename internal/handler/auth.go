package handler

import (
	"net/http"

	"github.com/msomdec/quizcert/internal/service"
)

// AuthHandler handles account requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister creates an account.
// POST /register
// Request:  {"name":"...","email":"...","password":"..."}
// Response: {"message":"..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "register user", err)
		return
	}

	if _, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		writeServiceError(w, r, "register user", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User registered successfully"})
}

// HandleLogin exchanges credentials for a bearer token.
// POST /login
// Request:  {"email":"...","password":"..."}
// Response: {"token":"...","name":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "login user", err)
		return
	}

	token, user, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "login user", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Name: user.Name})
}

// HandleAuthCheck confirms the bearer token is valid.
// GET /auth-check
// Response: {"valid":true,"user":{"name":"...","email":"..."}}
func (h *AuthHandler) HandleAuthCheck(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  UserDTO{Name: user.Name, Email: user.Email},
	})
}
