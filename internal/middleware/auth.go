package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"catalog-api/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const UsernameKey contextKey = "username"

// TokenVerifier validates a raw bearer token
type TokenVerifier interface {
	Verify(tokenString string) (*service.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the verified username in the request context
func AuthMiddleware(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				logger.Debug("Missing or malformed authorization header", zap.String("path", r.URL.Path))
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Debug("Token rejected", zap.Error(err))
				if errors.Is(err, service.ErrTokenExpired) {
					unauthorized(w, "token expired")
				} else {
					unauthorized(w, "invalid token")
				}
				return
			}

			logger.Debug("Token accepted",
				zap.String("username", claims.Subject),
				zap.String("jti", claims.ID),
			)

			ctx := context.WithValue(r.Context(), UsernameKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	RespondWithError(w, http.StatusUnauthorized, message)
}

// GetUsername extracts the authenticated username from request context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}
