package transport

import (
	"errors"
	"net/http"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// invalidCredentialsBody is returned, as a bare JSON string, for unreadable login payloads
const invalidCredentialsBody = "Invalid client credentials"

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token string `json:"token"`
}

// AuthHandler handles the login endpoint
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the login route
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
}

// Login exchanges the admin credentials for a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req *LoginRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil || req == nil {
		h.logger.Debug("Unreadable login payload", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusBadRequest, invalidCredentialsBody)
		return
	}

	token, err := h.authService.Login(r.Context(), domain.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{Token: token})
}
