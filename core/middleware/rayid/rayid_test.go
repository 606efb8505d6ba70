package rayid_test

import (
	"net/http/httptest"
	"testing"

	"record-resolver/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/ping", func(c *fiber.Ctx) error {
		rid, _ := c.Locals(rayid.LocalsKey).(string)
		return c.SendString(rid)
	})
	return app
}

func TestNew_GeneratesRayID(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("GET", "/ping", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)

	header := resp.Header.Get(rayid.HeaderName)
	require.NotEmpty(t, header)
	_, err = uuid.Parse(header)
	assert.NoError(t, err)
}

func TestNew_HonorsIncomingRayID(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(rayid.HeaderName, "upstream-ray")
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)

	assert.Equal(t, "upstream-ray", resp.Header.Get(rayid.HeaderName))
}
