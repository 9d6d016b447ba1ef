package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-tracker/internal/config"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/service"
)

type stubUserRepo struct{}

func (stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (stubUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

type recordingRevocations struct {
	revoked map[string]time.Time
}

func (s *recordingRevocations) Revoke(_ context.Context, jti string, until time.Time) error {
	s.revoked[jti] = until
	return nil
}

func (s *recordingRevocations) IsRevoked(_ context.Context, jti string) bool {
	_, ok := s.revoked[jti]
	return ok
}

func newLogoutFixture() (*fiber.App, *service.AuthService, *recordingRevocations, config.AuthConfig) {
	cfg := config.AuthConfig{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 60,
		CookieName:        "token",
		BcryptCost:        4,
	}
	revoked := &recordingRevocations{revoked: map[string]time.Time{}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   stubUserRepo{},
		Revocation: revoked,
	})
	handler := NewAuthHandler(authService, cfg)

	app := fiber.New()
	app.Post("/api/auth/logout", handler.Logout)
	return app, authService, revoked, cfg
}

func sessionCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestLogoutWithoutTokenStillClearsCookie(t *testing.T) {
	app, _, revoked, cfg := newLogoutFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp, cfg.CookieName)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()), "cookie expired in the past")
	assert.Empty(t, revoked.revoked)
}

func TestLogoutWithInvalidTokenStillClearsCookie(t *testing.T) {
	app, _, revoked, cfg := newLogoutFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "not-a-valid-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp, cfg.CookieName)
	assert.Empty(t, cookie.Value)
	assert.Empty(t, revoked.revoked)
}

func TestLogoutRevokesValidToken(t *testing.T) {
	app, authService, revoked, cfg := newLogoutFixture()

	token, _, err := authService.TokenManager().GenerateToken("user-1")
	require.NoError(t, err)
	claims, err := authService.TokenManager().ParseToken(token)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, revoked.IsRevoked(context.Background(), claims.ID))
	cookie := sessionCookie(t, resp, cfg.CookieName)
	assert.Empty(t, cookie.Value)
}

func TestLogoutAcceptsBearerToken(t *testing.T) {
	app, authService, revoked, _ := newLogoutFixture()

	token, _, err := authService.TokenManager().GenerateToken("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, revoked.revoked, 1)
}
