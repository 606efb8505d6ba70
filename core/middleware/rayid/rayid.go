package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the header carrying the ray ID on responses.
const HeaderName = "X-Ray-Id"

// LocalsKey is the Fiber locals key the ray ID is stored under.
const LocalsKey = "ray_id"

// New returns middleware that assigns every request a ray ID. An incoming
// ray ID header is honored so upstream proxies can pre-assign one; otherwise
// a fresh UUID is generated. The ID lands in the request locals and on the
// response header so log lines and client reports correlate.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
