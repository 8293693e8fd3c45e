package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/synchrony/student-management/internal/api/dto"
	"github.com/synchrony/student-management/internal/auth"
	"github.com/synchrony/student-management/internal/service"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

// AuthHandler exposes login, refresh and logout.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return h.respondWithSession(c, session)
}

// RefreshToken handles POST /auth/refresh-token. When the authentication filter already
// rotated the pair for this request, that pair is returned instead of minting another.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	if rotation, ok := auth.RotationFromContext(c); ok {
		if principal, ok := auth.PrincipalFromContext(c); ok {
			return h.respondWithSession(c, service.SessionFromRotation(principal, rotation))
		}
	}

	refresh := c.Cookies(h.auth.Tokens().RefreshCookieName())
	if refresh == "" {
		return apperrors.NewUnauthorized("Refresh token is missing")
	}
	session, err := h.auth.Refresh(c.UserContext(), refresh)
	if err != nil {
		return err
	}
	return h.respondWithSession(c, session)
}

// Logout handles POST /auth/logout. Cookies are cleared whatever the outcome.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokens := h.auth.Tokens()
	access := c.Cookies(tokens.AccessCookieName())
	c.Cookie(tokens.ClearAccessCookie())
	c.Cookie(tokens.ClearRefreshCookie())

	if err := h.auth.Logout(c.UserContext(), access); err != nil {
		de := apperrors.ToDomainError(err)
		if de.HTTPStatus >= http.StatusInternalServerError {
			return err
		}
		return c.Status(http.StatusBadRequest).JSON(dto.NewAPIResponse(de.Message, false))
	}
	return c.JSON(dto.NewAPIResponse("User logged out successfully.", true))
}

func (h *AuthHandler) respondWithSession(c *fiber.Ctx, session *service.Session) error {
	c.Cookie(session.Access.Cookie)
	c.Cookie(session.Refresh.Cookie)
	return c.JSON(dto.AuthResponse{
		Token:       session.Access.Value,
		Username:    session.Principal.Identifier(),
		Authorities: session.Authorities(),
	})
}
