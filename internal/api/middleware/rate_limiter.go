package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/momento/internal/domain"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	// Max requests per window
	Max int
	// Window duration
	Window time.Duration
	// Key generator function - returns user ID from context
	KeyGenerator func(c *fiber.Ctx) string
}

// DefaultRateLimiterConfig returns default configuration
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Max:          120,
		Window:       time.Minute,
		KeyGenerator: userKey,
	}
}

func userKey(c *fiber.Ctx) string {
	userID, ok := c.Locals(LocalUserID).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return ""
	}
	return userID.String()
}

// RateLimiter applies a fixed window limit per authenticated user. It must
// run after Auth; requests without a user are not counted.
func RateLimiter(config RateLimiterConfig) fiber.Handler {
	if config.Max <= 0 {
		config.Max = DefaultRateLimiterConfig().Max
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyGenerator == nil {
		config.KeyGenerator = userKey
	}

	return limiter.New(limiter.Config{
		Max:        config.Max,
		Expiration: config.Window,
		Next: func(c *fiber.Ctx) bool {
			return config.KeyGenerator(c) == ""
		},
		KeyGenerator: config.KeyGenerator,
		LimitReached: func(c *fiber.Ctx) error {
			return domain.ErrRateLimitExceeded
		},
	})
}
