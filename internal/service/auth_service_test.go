package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-tracker/internal/config"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeRevocationStore) {
	users := newFakeUserRepo()
	revoked := newFakeRevocationStore()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 60,
		BcryptCost:        4,
	}, AuthDependencies{UserRepo: users, Revocation: revoked})
	return svc, users, revoked
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, token, exp, err := svc.Register(context.Background(), "Ada", "Ada@Example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email, "email normalized")
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	logged, _, _, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()

	for _, tc := range []struct{ name, email, password string }{
		{"", "a@b.com", "pw"},
		{"Ada", "", "pw"},
		{"Ada", "a@b.com", ""},
	} {
		_, _, _, err := svc.Register(context.Background(), tc.name, tc.email, tc.password)
		require.Error(t, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pw1")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Imposter", "ada@example.com", "pw2")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)

	_, _, _, err = svc.Login(context.Background(), "ghost@example.com", "hunter22")
	require.Error(t, err)
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, revoked := newAuthFixture()

	_, token, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.False(t, revoked.IsRevoked(context.Background(), claims.ID))

	require.NoError(t, svc.Logout(context.Background(), claims))
	assert.True(t, revoked.IsRevoked(context.Background(), claims.ID))
}
