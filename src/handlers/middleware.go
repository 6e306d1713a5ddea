package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/username/sellerfolio/backend/src/logger"
	"github.com/username/sellerfolio/backend/src/utils"
)

type contextKey string

const operatorContextKey = contextKey("operator")

// AuthMiddleware validates the Bearer session token issued by the login
// endpoint and stores the operator subject on the request context.
func (h *AuthHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.L.Debug("AuthMiddleware: Authorization header missing", "path", r.URL.Path)
			utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			logger.L.Debug("AuthMiddleware: Token string empty", "path", r.URL.Path)
			utils.SendJSONError(w, "Malformed token", http.StatusUnauthorized)
			return
		}

		subject, err := h.authService.ValidateToken(tokenString)
		if err != nil {
			logger.L.Warn("AuthMiddleware: Token validation failed", "path", r.URL.Path, "error", err)
			utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), operatorContextKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetOperatorFromContext returns the authenticated operator subject, if any.
func GetOperatorFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(operatorContextKey).(string)
	return subject, ok
}
