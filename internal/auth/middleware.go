package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/repository"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller for the current request. It
// is carried in request locals, never in package-level state.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// Middleware validates session tokens and loads the authenticated user.
type Middleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	revoked    RevocationStore
	cookieName string
}

// NewMiddleware constructs the middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, revoked RevocationStore, cookieName string) *Middleware {
	return &Middleware{tokens: tokens, users: users, revoked: revoked, cookieName: cookieName}
}

// Handle enforces authentication for protected routes. The token is read
// from the session cookie, falling back to a bearer header for API clients.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	tokenStr := m.tokenFromRequest(c)
	if tokenStr == "" {
		return apperrors.NewUnauthorized("not authenticated")
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("invalid session token")
	}
	if m.revoked != nil && m.revoked.IsRevoked(c.UserContext(), claims.ID) {
		return apperrors.NewUnauthorized("session revoked")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims})
	return c.Next()
}

func (m *Middleware) tokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(m.cookieName); cookie != "" {
		return cookie
	}
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
