package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName is the request header carrying the API key.
const HeaderName = "X-Api-Key"

// Config holds configuration for the API key middleware.
type Config struct {
	// ApiKey is the key requests must present. Empty disables the check,
	// leaving the API open.
	ApiKey string
}

// New returns middleware validating the API key header.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}

		presented := c.Get(HeaderName)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}
		return c.Next()
	}
}
