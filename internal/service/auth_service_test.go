package service

import (
	"context"
	"testing"

	"catalog-api/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginWithDefaultCredentials(t *testing.T) {
	tokens := NewTokenService(testTokenConfig())
	auth := NewAuthService(DefaultCredentials, tokens, testLogger())

	signed, err := auth.Login(context.Background(), domain.Credentials{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestAuthService_RejectsNearMisses(t *testing.T) {
	auth := NewAuthService(DefaultCredentials, NewTokenService(testTokenConfig()), testLogger())

	for _, creds := range []domain.Credentials{
		{Username: "admin", Password: "Admin"},
		{Username: "Admin", Password: "admin"},
		{Username: "admin", Password: ""},
		{Username: "", Password: ""},
		{Username: "admin ", Password: "admin"},
	} {
		signed, err := auth.Login(context.Background(), creds)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "credentials %+v", creds)
		assert.Empty(t, signed)
	}
}

// Any pair other than admin/admin is rejected without issuing a token
func TestProperty_OnlyAdminPairLogsIn(t *testing.T) {
	properties := gopter.NewProperties(nil)
	auth := NewAuthService(DefaultCredentials, NewTokenService(testTokenConfig()), testLogger())

	properties.Property("non admin credentials are rejected", prop.ForAll(
		func(username, password string) bool {
			if username == "admin" && password == "admin" {
				return true
			}
			signed, err := auth.Login(context.Background(), domain.Credentials{Username: username, Password: password})
			return err == ErrInvalidCredentials && signed == ""
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
