package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/guest-list/internal/api/dto"
	"github.com/spec-kit/guest-list/internal/auth"
	"github.com/spec-kit/guest-list/internal/service"
	apperrors "github.com/spec-kit/guest-list/pkg/util/errorutil"
)

// AuthHandler exposes host login.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login. Form posts from the page are redirected back to it.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	fromPage := strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationForm)

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Password) == "" {
		return apperrors.NewValidationError("password required", map[string]any{"field": "password"})
	}

	token, exp, err := h.service.Login(c.UserContext(), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthDisabled) {
			return fiber.ErrNotFound
		}
		if fromPage && apperrors.HasCode(err, apperrors.CodeUnauthorized) {
			return c.Redirect("/?login=failed", fiber.StatusSeeOther)
		}
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if fromPage {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{AccessToken: token, ExpiresAt: exp}})
}
