package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/guest-list/internal/auth"
	"github.com/spec-kit/guest-list/internal/config"
	apperrors "github.com/spec-kit/guest-list/pkg/util/errorutil"
)

// ErrAuthDisabled is returned by Login when no host password is configured.
var ErrAuthDisabled = errors.New("host authentication is disabled")

// AuthService exchanges the host password for a session token.
type AuthService struct {
	passwordHash string
	tokenMgr     *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		passwordHash: strings.TrimSpace(cfg.HostPasswordHash),
		tokenMgr:     tokens,
	}
}

// Enabled reports whether a host password is configured.
func (s *AuthService) Enabled() bool {
	return s.passwordHash != ""
}

// Login authenticates the host.
func (s *AuthService) Login(_ context.Context, password string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrAuthDisabled
	}
	if err := auth.ComparePassword(s.passwordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokenMgr.GenerateToken(auth.HostSubject)
}
