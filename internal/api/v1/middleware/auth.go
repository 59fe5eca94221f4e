package middleware

import (
	"strings"

	"github.com/Behyna/streamstore/internal/auth"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AdminLocalKey = "admin"
	bearerPrefix  = "Bearer "
)

// AdminAuth accepts an admin token from the Authorization header or from the
// token query parameter, the latter being what the chat link carries.
func AdminAuth(tokens *auth.TokenIssuer, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value := TokenFromRequest(c)
		if value == "" {
			return service.NewServiceError(constants.ErrCodeUnauthorized, auth.ErrInvalidToken)
		}

		token, err := tokens.Parse(value)
		if err != nil {
			logger.Warn("Rejected admin token",
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Error(err))
			return service.NewServiceError(constants.ErrCodeUnauthorized, err)
		}

		c.Locals(AdminLocalKey, token.Phone)
		return c.Next()
	}
}

func TokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return c.Query("token")
}
