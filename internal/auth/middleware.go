package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/guest-list/pkg/util/errorutil"
)

const (
	principalKey = "auth_principal"

	// CookieName carries the session token for the HTML page.
	CookieName = "guest_list_session"
)

// Principal represents the authenticated caller.
type Principal struct {
	Subject string
}

// AuthMiddleware resolves the session token, when present, into a principal.
type AuthMiddleware struct {
	tokens  *TokenManager
	enabled bool
}

// NewAuthMiddleware constructs middleware. When enabled is false every
// request passes RequireHost.
func NewAuthMiddleware(tokens *TokenManager, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, enabled: enabled}
}

// Handle attaches a principal for a valid bearer header or session cookie.
// Requests without a token continue anonymously, and so do requests with an
// expired or foreign cookie, which is cleared.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}

	token, fromHeader, err := tokenFromRequest(c)
	if err != nil {
		return err
	}
	if token == "" {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		if fromHeader {
			return apperrors.NewUnauthorized("invalid token")
		}
		c.ClearCookie(CookieName)
		return c.Next()
	}
	c.Locals(principalKey, &Principal{Subject: claims.Subject})
	return c.Next()
}

// RequireHost rejects anonymous callers when authentication is enabled.
func (m *AuthMiddleware) RequireHost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !m.enabled {
			return c.Next()
		}
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("host login required")
		}
		return c.Next()
	}
}

// Enabled reports whether tokens are enforced.
func (m *AuthMiddleware) Enabled() bool {
	return m.enabled
}

func tokenFromRequest(c *fiber.Ctx) (token string, fromHeader bool, err error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", true, apperrors.NewUnauthorized("invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), true, nil
	}
	return c.Cookies(CookieName), false, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
