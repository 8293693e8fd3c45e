package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/synchrony/student-management/internal/domain"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

const unauthorizedMessage = "Full authentication is required to access this resource"

// RequireAuthenticated answers 401 when the filter attached no principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return unauthorized(c)
		}
		return c.Next()
	}
}

// RequireRole ensures the principal holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return unauthorized(c)
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return apperrors.NewForbidden("Access Denied")
		}
		return c.Next()
	}
}

// RequireSelfOrAdmin lets admins through and restricts everyone else to the account named
// by the route parameter param.
func RequireSelfOrAdmin(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return unauthorized(c)
		}
		if principal.Role() == domain.RoleAdmin || principal.Identifier() == c.Params(param) {
			return c.Next()
		}
		return apperrors.NewForbidden("Access Denied")
	}
}

// unauthorized writes the authentication entry point body directly; it is deliberately not
// routed through the error translator.
func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":  fiber.StatusUnauthorized,
		"error":   "Unauthorized",
		"message": unauthorizedMessage,
		"path":    c.Path(),
	})
}
