package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenConfig is the immutable signing configuration shared by issuer and verifier
type TokenConfig struct {
	Key    string
	Issuer string // also the expected audience
	Expiry time.Duration
}

// Claims represents the JWT claims carried by an access token
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies bearer tokens
type TokenService interface {
	Issue(username string) (string, error)
	Verify(tokenString string) (*Claims, error)
}

type tokenService struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with HS256
func NewTokenService(config TokenConfig) TokenService {
	return newTokenServiceWithClock(config, time.Now)
}

func newTokenServiceWithClock(config TokenConfig, now func() time.Time) *tokenService {
	return &tokenService{config: config, now: now}
}

// Issue generates a signed token whose subject is the username
func (s *tokenService) Issue(username string) (string, error) {
	now := s.now()
	claims := &Claims{
		Name: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Key))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, issuer, audience and expiry of a token
func (s *tokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(s.config.Key), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
