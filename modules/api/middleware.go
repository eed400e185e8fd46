package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
	"github.com/kalviumcommunity/Medical-Appointments/modules/auth"
)

// UserContextKey is the locals key holding the authenticated user's claims.
const UserContextKey = "user"

// AuthMiddleware validates the bearer token on incoming requests and stores
// the resulting claims in the request locals.
func AuthMiddleware(port auth.Port) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   auth.CodeTokenMissing,
				Message: "Authorization header is required",
			})
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   auth.CodeTokenInvalid,
				Message: "Authorization header must be a bearer token",
			})
		}

		claims, err := port.ValidateToken(c.UserContext(), token)
		if err != nil {
			code := auth.CodeTokenInvalid
			message := "Invalid token"
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				code = auth.CodeTokenExpired
				message = "Token has expired"
			case errors.Is(err, auth.ErrTokenMissing):
				code = auth.CodeTokenMissing
				message = "Token is required"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   code,
				Message: message,
			})
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// RequireRoles restricts a route to the given roles. An empty role set
// denies every caller.
func RequireRoles(permitted ...user.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(UserContextKey).(*user.Claims)
		if !ok || claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   auth.CodeTokenMissing,
				Message: "Authentication is required",
			})
		}
		if !auth.Allow(claims.Role, permitted...) {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   CodeForbidden,
				Message: "You do not have permission to access this resource",
			})
		}
		return c.Next()
	}
}

// ClaimsFromContext returns the claims stored by AuthMiddleware, if any.
func ClaimsFromContext(c *fiber.Ctx) (*user.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*user.Claims)
	return claims, ok && claims != nil
}
