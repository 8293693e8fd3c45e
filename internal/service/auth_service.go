package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/auth"
	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/observability"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

const badCredentialsMessage = "Invalid username or password"

// PrincipalStore is the part of auth.Resolver the auth service needs.
type PrincipalStore interface {
	Lookup(ctx context.Context, identifier string) (domain.Principal, error)
	Resolve(ctx context.Context, identifier string) (domain.Principal, error)
	RecordLogin(ctx context.Context, principal domain.Principal)
}

// Session is an authenticated principal with a fresh token pair.
type Session struct {
	Principal domain.Principal
	Access    *auth.IssuedToken
	Refresh   *auth.IssuedToken
}

// Authorities lists the granted roles in the shape returned to clients.
func (s *Session) Authorities() []string {
	return []string{string(s.Principal.Role())}
}

// AuthService coordinates login, refresh and logout.
type AuthService struct {
	principals PrincipalStore
	tokens     *auth.TokenManager
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(principals PrincipalStore, tokens *auth.TokenManager, logger *zap.Logger, metrics *observability.Metrics) *AuthService {
	return &AuthService{principals: principals, tokens: tokens, metrics: metrics, logger: logger}
}

// Login checks the credentials and issues a token pair. Unknown users and wrong passwords
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	principal, err := s.principals.Lookup(ctx, username)
	if err != nil {
		s.metrics.RecordLogin(false)
		if errors.Is(err, auth.ErrPrincipalNotFound) {
			return nil, apperrors.NewBadCredentials(badCredentialsMessage)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(principal.PasswordHash(), password); err != nil {
		s.metrics.RecordLogin(false)
		s.logger.Info("login rejected", zap.String("username", username), zap.Error(err))
		return nil, apperrors.NewBadCredentials(badCredentialsMessage)
	}

	s.principals.RecordLogin(ctx, principal)
	session, err := s.issue(principal)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLogin(true)
	return session, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	subject, err := s.tokens.SubjectOf(refreshToken)
	if err != nil {
		s.metrics.RecordTokenFailure(string(auth.RefreshToken), auth.Reason(err))
		return nil, apperrors.NewUnauthorized("Invalid refresh token")
	}
	principal, err := s.principals.Resolve(ctx, subject)
	if err != nil {
		if errors.Is(err, auth.ErrPrincipalNotFound) {
			return nil, apperrors.NewUnauthorized("Invalid refresh token")
		}
		return nil, apperrors.NewInternalError(err)
	}
	session, err := s.issue(principal)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTokenRotation()
	return session, nil
}

// SessionFromRotation reuses the pair the authentication filter already issued for this
// request so a refresh call does not rotate twice.
func SessionFromRotation(principal domain.Principal, rotation *auth.Rotation) *Session {
	return &Session{Principal: principal, Access: rotation.Access, Refresh: rotation.Refresh}
}

// Logout reports whether accessToken names a live account. Tokens are stateless, so there
// is nothing to revoke server side.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	subject, err := s.tokens.SubjectOf(accessToken)
	if err != nil {
		return apperrors.NewBadRequest("Invalid token or User.")
	}
	if _, err := s.principals.Lookup(ctx, subject); err != nil {
		if errors.Is(err, auth.ErrPrincipalNotFound) {
			return apperrors.NewBadRequest("Invalid token or User.")
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Tokens exposes the token manager for cookie clearing.
func (s *AuthService) Tokens() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issue(principal domain.Principal) (*Session, error) {
	access, err := s.tokens.IssueAccessToken(principal.Identifier())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refresh, err := s.tokens.IssueRefreshToken(principal.Identifier())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Principal: principal, Access: access, Refresh: refresh}, nil
}
