package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/config"
)

// Token failure classes returned by TokenManager.Check.
var (
	ErrTokenEmpty       = errors.New("token is empty")
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrTokenSignature   = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenUnsupported = errors.New("token is unsupported")
)

// TokenKind distinguishes access from refresh tokens. Both are signed identically and only
// differ in lifetime and cookie name.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// IssuedToken is a freshly signed token together with the cookie that carries it.
type IssuedToken struct {
	Kind      TokenKind
	Value     string
	ExpiresAt time.Time
	Cookie    *fiber.Cookie
}

// TokenManager issues and validates HS512 signed JWTs whose only claim of interest is the
// subject (the account identifier).
type TokenManager struct {
	secret        []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	accessCookie  string
	refreshCookie string
	cookiePath    string
	secure        bool
	now           func() time.Time
	logger        *zap.Logger
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the wall clock used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) { tm.now = now }
}

// WithLogger sets the logger used to report rejected tokens.
func WithLogger(logger *zap.Logger) TokenOption {
	return func(tm *TokenManager) { tm.logger = logger }
}

// NewTokenManager builds a new manager from auth configuration.
func NewTokenManager(cfg config.AuthConfig, opts ...TokenOption) *TokenManager {
	tm := &TokenManager{
		secret:        []byte(cfg.JWTSecret),
		accessTTL:     cfg.AccessTTL(),
		refreshTTL:    cfg.RefreshTTL(),
		accessCookie:  cfg.CookieName,
		refreshCookie: cfg.RefreshCookieName,
		cookiePath:    cfg.CookiePath,
		secure:        cfg.CookieSecure,
		now:           time.Now,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// AccessCookieName returns the name of the cookie carrying the access token.
func (tm *TokenManager) AccessCookieName() string { return tm.accessCookie }

// RefreshCookieName returns the name of the cookie carrying the refresh token.
func (tm *TokenManager) RefreshCookieName() string { return tm.refreshCookie }

// IssueAccessToken signs a short lived token for subject.
func (tm *TokenManager) IssueAccessToken(subject string) (*IssuedToken, error) {
	return tm.issue(AccessToken, subject)
}

// IssueRefreshToken signs a long lived token for subject.
func (tm *TokenManager) IssueRefreshToken(subject string) (*IssuedToken, error) {
	return tm.issue(RefreshToken, subject)
}

func (tm *TokenManager) issue(kind TokenKind, subject string) (*IssuedToken, error) {
	if subject == "" {
		return nil, ErrTokenEmpty
	}
	ttl, name := tm.accessTTL, tm.accessCookie
	if kind == RefreshToken {
		ttl, name = tm.refreshTTL, tm.refreshCookie
	}

	issuedAt := tm.now()
	expiresAt := issuedAt.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(tm.secret)
	if err != nil {
		return nil, fmt.Errorf("sign %s token: %w", kind, err)
	}

	return &IssuedToken{
		Kind:      kind,
		Value:     signed,
		ExpiresAt: expiresAt,
		Cookie:    tm.cookie(name, signed, int(ttl.Seconds()), expiresAt),
	}, nil
}

// ClearAccessCookie returns a cookie instructing the client to drop the access token.
func (tm *TokenManager) ClearAccessCookie() *fiber.Cookie {
	return tm.cookie(tm.accessCookie, "", 0, time.Unix(0, 0))
}

// ClearRefreshCookie returns a cookie instructing the client to drop the refresh token.
func (tm *TokenManager) ClearRefreshCookie() *fiber.Cookie {
	return tm.cookie(tm.refreshCookie, "", 0, time.Unix(0, 0))
}

func (tm *TokenManager) cookie(name, value string, maxAge int, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     tm.cookiePath,
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   tm.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// Check parses and verifies token, returning nil or one of the ErrToken* classes.
func (tm *TokenManager) Check(token string) error {
	_, err := tm.parse(token)
	return err
}

// Validate reports whether token is well formed, correctly signed and unexpired. Failures
// are logged with their classification; the method never panics on hostile input.
func (tm *TokenManager) Validate(token string) bool {
	err := tm.Check(token)
	if err != nil {
		tm.logger.Debug("token rejected", zap.String("reason", Reason(err)), zap.Error(err))
		return false
	}
	return true
}

// SubjectOf returns the subject claim of a valid token.
func (tm *TokenManager) SubjectOf(token string) (string, error) {
	claims, err := tm.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (tm *TokenManager) parse(token string) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, ErrTokenEmpty
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS512 {
			return nil, fmt.Errorf("%w: alg %v", ErrTokenUnsupported, t.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if claims.Subject == "" {
		return nil, ErrTokenEmpty
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrTokenUnsupported), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenUnsupported, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %v", ErrTokenEmpty, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

// Reason maps a Check error to a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTokenEmpty):
		return "empty"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenSignature):
		return "signature"
	case errors.Is(err, ErrTokenUnsupported):
		return "unsupported"
	default:
		return "malformed"
	}
}
