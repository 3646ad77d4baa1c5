package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/auth"
	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

const (
	// LocalUserID is the key to retrieve the authenticated user id from context
	LocalUserID = "user_id"
)

// TokenValidator parses bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Auth creates an authentication middleware using JWT bearer tokens
func Auth(tokens TokenValidator, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Extract Bearer token
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		// 2. Validate signature, issuer and expiry
		claims, err := tokens.ValidateToken(token)
		if err != nil {
			logger.Debug("rejected access token", "error", err, "path", c.Path())
			return domain.ErrUnauthorized
		}

		// 3. Set user in context
		c.Locals(LocalUserID, claims.UserID)

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetUserID retrieves the authenticated user id from Fiber context
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(LocalUserID).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}
