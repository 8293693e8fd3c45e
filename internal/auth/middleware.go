package auth

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/observability"
)

const (
	principalKey = "auth_principal"
	rotationKey  = "auth_rotation"
)

// PrincipalResolver loads the account behind a token subject.
type PrincipalResolver interface {
	Resolve(ctx context.Context, identifier string) (domain.Principal, error)
}

// Rotation records a silent refresh performed while authenticating a request.
type Rotation struct {
	Subject string
	Access  *IssuedToken
	Refresh *IssuedToken
}

type authState string

const (
	stateNoToken       authState = "no_token"
	stateAccessValid   authState = "access_valid"
	stateRefreshValid  authState = "refresh_valid"
	stateBothInvalid   authState = "both_invalid"
	stateUnresolvable  authState = "unresolvable"
	stateRotationError authState = "rotation_error"
)

// Authenticator is the cookie based authentication filter. It never rejects a request on
// its own: it attaches a principal when the credentials allow it and leaves enforcement to
// the route guards.
type Authenticator struct {
	tokens   *TokenManager
	resolver PrincipalResolver
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewAuthenticator constructs the filter.
func NewAuthenticator(tokens *TokenManager, resolver PrincipalResolver, logger *zap.Logger, metrics *observability.Metrics) *Authenticator {
	return &Authenticator{tokens: tokens, resolver: resolver, logger: logger, metrics: metrics}
}

// Handle authenticates the request from its cookies and always continues the chain.
func (a *Authenticator) Handle(c *fiber.Ctx) error {
	state := a.authenticate(c)
	if state != stateNoToken {
		a.logger.Debug("authentication", zap.String("state", string(state)), zap.String("path", c.Path()))
	}
	return c.Next()
}

func (a *Authenticator) authenticate(c *fiber.Ctx) (state authState) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("authentication panicked", zap.Any("panic", r))
			c.Locals(principalKey, nil)
			c.Locals(rotationKey, nil)
			state = stateBothInvalid
		}
	}()

	access := c.Cookies(a.tokens.AccessCookieName())
	refresh := c.Cookies(a.tokens.RefreshCookieName())
	if access == "" && refresh == "" {
		return stateNoToken
	}
	ctx := c.UserContext()

	if access != "" {
		subject, err := a.tokens.SubjectOf(access)
		if err == nil {
			principal, err := a.resolver.Resolve(ctx, subject)
			if err != nil {
				a.logger.Info("access token subject unresolvable", zap.String("subject", subject), zap.Error(err))
				return stateUnresolvable
			}
			c.Locals(principalKey, principal)
			return stateAccessValid
		}
		a.rejected(AccessToken, err)
	}

	if refresh == "" {
		return stateBothInvalid
	}
	subject, err := a.tokens.SubjectOf(refresh)
	if err != nil {
		a.rejected(RefreshToken, err)
		return stateBothInvalid
	}
	principal, err := a.resolver.Resolve(ctx, subject)
	if err != nil {
		a.logger.Info("refresh token subject unresolvable", zap.String("subject", subject), zap.Error(err))
		return stateUnresolvable
	}

	rotation, err := a.rotate(subject)
	if err != nil {
		a.logger.Error("token rotation failed", zap.String("subject", subject), zap.Error(err))
		return stateRotationError
	}
	c.Cookie(rotation.Access.Cookie)
	c.Cookie(rotation.Refresh.Cookie)
	c.Locals(rotationKey, rotation)
	c.Locals(principalKey, principal)
	a.metrics.RecordTokenRotation()
	return stateRefreshValid
}

func (a *Authenticator) rotate(subject string) (*Rotation, error) {
	access, err := a.tokens.IssueAccessToken(subject)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := a.tokens.IssueRefreshToken(subject)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &Rotation{Subject: subject, Access: access, Refresh: refresh}, nil
}

func (a *Authenticator) rejected(kind TokenKind, err error) {
	reason := Reason(err)
	a.metrics.RecordTokenFailure(string(kind), reason)
	a.logger.Debug("token rejected", zap.String("kind", string(kind)), zap.String("reason", reason), zap.Error(err))
}

// PrincipalFromContext retrieves the authenticated account.
func PrincipalFromContext(c *fiber.Ctx) (domain.Principal, bool) {
	principal, ok := c.Locals(principalKey).(domain.Principal)
	return principal, ok && principal != nil
}

// RotationFromContext returns the token pair issued by the filter for this request, if any.
func RotationFromContext(c *fiber.Ctx) (*Rotation, bool) {
	rotation, ok := c.Locals(rotationKey).(*Rotation)
	return rotation, ok && rotation != nil
}
