package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/config"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/repository"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

// AuthService coordinates registration, login and session revocation.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	revoked    auth.RevocationStore
	bcryptCost int
}

// AuthDependencies bundles requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Revocation auth.RevocationStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		revoked:    deps.Revocation,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account and issues a session token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, email and password are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique index on email is the real guard against duplicate
		// registrations racing past the lookup above.
		if apperrors.IsUniqueViolation(err) {
			return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Login authenticates by email and password and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Logout revokes the session server-side until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || s.revoked == nil {
		return nil
	}
	until := time.Now().Add(s.tokenMgr.TTL())
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.revoked.Revoke(ctx, claims.ID, until)
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
