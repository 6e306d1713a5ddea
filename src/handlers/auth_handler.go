package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/sellerfolio/backend/src/logger"
	"github.com/username/sellerfolio/backend/src/security"
	"github.com/username/sellerfolio/backend/src/utils"
)

// AuthHandler implements the single-operator login. The operator password is
// bcrypt-hashed once at startup; only the hash is held here.
type AuthHandler struct {
	authService  *security.AuthService
	passwordHash string
}

func NewAuthHandler(authService *security.AuthService, operatorPassword string) *AuthHandler {
	passwordHash := ""
	if operatorPassword != "" {
		hash, err := authService.HashPassword(operatorPassword)
		if err != nil {
			logger.L.Error("Failed to hash operator password, login disabled", "error", err)
		} else {
			passwordHash = hash
		}
	}
	return &AuthHandler{
		authService:  authService,
		passwordHash: passwordHash,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if h.passwordHash == "" {
		logger.L.Warn("Login attempted but no operator password is configured")
		utils.SendJSONError(w, "Login is not configured on this server", http.StatusForbidden)
		return
	}

	if err := h.authService.CompareHashAndPassword(h.passwordHash, req.Password); err != nil {
		logger.L.Warn("Login failed: wrong password", "remoteAddr", r.RemoteAddr)
		utils.SendJSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken("operator")
	if err != nil {
		logger.L.Error("Failed to generate session token", "error", err)
		utils.SendJSONError(w, "Could not create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(loginResponse{Token: token}); err != nil {
		logger.L.Error("Error encoding login response", "error", err)
	}
}
