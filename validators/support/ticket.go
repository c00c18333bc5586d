package supportValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"madrasa/middleware"
)

var validPriorities = map[string]bool{"LOW": true, "MEDIUM": true, "HIGH": true}
var validCategories = map[string]bool{"GENERAL": true, "CONTENT": true, "ACCOUNT": true, "EXAM": true}
var validStatuses = map[string]bool{"OPEN": true, "IN_PROGRESS": true, "RESOLVED": true, "CLOSED": true}

// CreateSupportTicket validates ticket creation request
func CreateSupportTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Priority    *string `json:"priority"`
			Category    *string `json:"category"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 5 {
			errors["title"] = "Title must be at least 5 characters long!"
		}

		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		} else if len(reqData.Description) < 10 {
			errors["description"] = "Description must be at least 10 characters long!"
		}

		if reqData.Priority != nil && !validPriorities[strings.ToUpper(*reqData.Priority)] {
			errors["priority"] = "Priority must be LOW, MEDIUM, or HIGH!"
		}

		if reqData.Category != nil && !validCategories[strings.ToUpper(*reqData.Category)] {
			errors["category"] = "Category must be GENERAL, CONTENT, ACCOUNT, or EXAM!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSupportTicket", reqData)
		return c.Next()
	}
}

// TicketList validates user ticket listing request
func TicketList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `query:"page"`
			Limit *int `query:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && (*reqData.Limit < 1 || *reqData.Limit > 100) {
			errors["limit"] = "Limit must be between 1 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// AdminTicketList validates admin ticket listing request with filters
func AdminTicketList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     *int    `query:"page"`
			Limit    *int    `query:"limit"`
			Status   *string `query:"status"`
			Priority *string `query:"priority"`
			Category *string `query:"category"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && (*reqData.Limit < 1 || *reqData.Limit > 100) {
			errors["limit"] = "Limit must be between 1 and 100!"
		}
		if reqData.Status != nil && !validStatuses[strings.ToUpper(*reqData.Status)] {
			errors["status"] = "Status must be OPEN, IN_PROGRESS, RESOLVED, or CLOSED!"
		}
		if reqData.Priority != nil && !validPriorities[strings.ToUpper(*reqData.Priority)] {
			errors["priority"] = "Priority must be LOW, MEDIUM, or HIGH!"
		}
		if reqData.Category != nil && !validCategories[strings.ToUpper(*reqData.Category)] {
			errors["category"] = "Category must be GENERAL, CONTENT, ACCOUNT, or EXAM!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdminList", reqData)
		return c.Next()
	}
}

// UpdateTicketStatus validates ticket status update request
func UpdateTicketStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketIDStr := strings.TrimSpace(c.Params("id"))
		if ticketIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Ticket ID is required!", nil)
		}

		ticketID, err := strconv.Atoi(ticketIDStr)
		if err != nil || ticketID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Ticket ID!", nil)
		}

		c.Locals("ticketID", ticketID)
		return c.Next()
	}
}
