// ABOUTME: HTTP middleware for JWT authentication on management API endpoints
// ABOUTME: Extracts the bearer token, checks it against the current admin and adds it to context

package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// DetailUnauthorized is the body detail sent with every 401.
const DetailUnauthorized = "Could not validate credentials"

// AdminLookup returns the configured administrator's username.
type AdminLookup interface {
	AdminUsername(ctx context.Context) (string, error)
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "invalid authorization header format"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// HTTPAuthMiddleware rejects requests without a valid token for the current
// administrator. Admitted requests carry the username in their context.
func HTTPAuthMiddleware(admins AdminLookup, verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				logger.Debug("rejecting request", "path", r.URL.Path, "reason", errMsg)
				Unauthorized(w)
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("rejecting request", "path", r.URL.Path, "error", err)
				Unauthorized(w)
				return
			}

			current, err := admins.AdminUsername(r.Context())
			if err != nil || current != subject {
				logger.Debug("rejecting request", "path", r.URL.Path, "reason", "unknown subject")
				Unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), subject)))
		})
	}
}

// Unauthorized writes a 401 with the bearer challenge and a JSON detail.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": DetailUnauthorized})
}
