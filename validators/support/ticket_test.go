package supportValidator

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data"`
}

func newTicketApp() *fiber.App {
	app := fiber.New()
	app.Post("/support/create", CreateSupportTicket(), func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedSupportTicket").(*struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Priority    *string `json:"priority"`
			Category    *string `json:"category"`
		})
		return c.JSON(fiber.Map{"title": reqData.Title})
	})
	app.Get("/support/list", TicketList(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestCreateSupportTicketValidatorPassesThrough(t *testing.T) {
	app := newTicketApp()

	body := `{"title":"Video will not play","description":"Lesson 3 of Tajweed Basics stops at 0:12.","priority":"high"}`
	req := httptest.NewRequest("POST", "/support/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateSupportTicketValidatorRejectsShortFields(t *testing.T) {
	app := newTicketApp()

	body := `{"title":"Hi","description":"short","priority":"URGENT"}`
	req := httptest.NewRequest("POST", "/support/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Status)
	assert.Contains(t, out.Data, "title")
	assert.Contains(t, out.Data, "description")
	assert.Contains(t, out.Data, "priority")
}

func TestTicketListValidatorRejectsBadPagination(t *testing.T) {
	app := newTicketApp()

	req := httptest.NewRequest("GET", "/support/list?page=0&limit=500", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestTicketListValidatorAcceptsDefaults(t *testing.T) {
	app := newTicketApp()

	req := httptest.NewRequest("GET", "/support/list", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
