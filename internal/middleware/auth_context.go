package middleware

import (
	"context"

	"bookmarket/internal/authctx"
	"bookmarket/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SoftResolver resolves a raw credential into a user without failing for
// missing or stale credentials. *services.AuthService implements it.
type SoftResolver interface {
	ResolveSoft(ctx context.Context, token string) (*models.User, error)
}

// AuthContext is a Fiber middleware that attaches the requesting user, if any,
// to the request's user context. The Authorization header holds the raw token
// with no "Bearer " prefix. Only a malformed or badly signed token stops the
// request; every other failure continues anonymously.
func AuthContext(resolver SoftResolver, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		ctx := c.UserContext()

		user, err := resolver.ResolveSoft(ctx, token)
		if err != nil {
			log.WithError(err).WithField("path", c.Path()).Warn("rejecting request with invalid token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.SetUserContext(authctx.WithToken(authctx.WithUser(ctx, user), token))
		return c.Next()
	}
}
