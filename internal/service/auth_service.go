package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"catalog-api/internal/domain"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// CredentialVerifier decides whether a username/password pair may log in
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) error
}

// StaticCredentials accepts exactly one username/password pair
type StaticCredentials struct {
	Username string
	Password string
}

// DefaultCredentials is the single administrative login of the catalog
var DefaultCredentials = StaticCredentials{Username: "admin", Password: "admin"}

// Verify compares both values in constant time
func (c StaticCredentials) Verify(_ context.Context, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// AuthService exchanges credentials for bearer tokens
type AuthService interface {
	Login(ctx context.Context, credentials domain.Credentials) (string, error)
}

type authService struct {
	verifier CredentialVerifier
	tokens   TokenService
	logger   *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(verifier CredentialVerifier, tokens TokenService, logger *zap.Logger) AuthService {
	return &authService{
		verifier: verifier,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login returns a signed token when the credentials are accepted
func (s *authService) Login(ctx context.Context, credentials domain.Credentials) (string, error) {
	if err := s.verifier.Verify(ctx, credentials.Username, credentials.Password); err != nil {
		s.logger.Debug("Credentials rejected", zap.String("username", credentials.Username))
		return "", err
	}

	token, err := s.tokens.Issue(credentials.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("Token issued", zap.String("username", credentials.Username))
	return token, nil
}
