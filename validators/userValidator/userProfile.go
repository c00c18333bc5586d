package userValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"madrasa/middleware"
)

// UpdateProfile validates profile update request
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     *string `json:"name"`
			Guardian *string `json:"guardian"`
			City     *string `json:"city"`
			Country  *string `json:"country"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name != nil && len(strings.TrimSpace(*reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
