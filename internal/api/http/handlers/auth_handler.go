package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/dto"
	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/config"
	"github.com/spec-kit/project-tracker/internal/service"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

// AuthHandler exposes registration, login, logout and the current-user probe.
type AuthHandler struct {
	auth *service.AuthService
	cfg  config.AuthConfig
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cfg: cfg}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)
	return c.JSON(dto.NewUserResponse(user))
}

// Logout handles POST /api/auth/logout. Best-effort: a valid token is
// revoked until its natural expiry, but the cookie is cleared and 200
// returned regardless of what the request carried.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := h.sessionToken(c); token != "" {
		if claims, err := h.auth.TokenManager().ParseToken(token); err == nil {
			_ = h.auth.Logout(c.UserContext(), claims)
		}
	}
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(dto.NewUserResponse(principal.User))
}

func (h *AuthHandler) sessionToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(h.cfg.CookieName); cookie != "" {
		return cookie
	}
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
