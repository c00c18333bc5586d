package programValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"madrasa/middleware"
)

// CreateProgram validates program creation request
func CreateProgram() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title          string `json:"title"`
			Description    string `json:"description"`
			Instructor     string `json:"instructor"`
			TotalSemesters int    `json:"total_semesters"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Instructor = strings.TrimSpace(reqData.Instructor)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		} else if len(reqData.Description) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		if reqData.Instructor != "" && len(reqData.Instructor) < 3 {
			errors["instructor"] = "Instructor must be at least 3 characters long!"
		}

		if reqData.TotalSemesters < 1 {
			errors["total_semesters"] = "Total semesters must be at least 1!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgram", reqData)
		return c.Next()
	}
}

// ProgramList validates program listing request with pagination
func ProgramList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
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

// GetProgramDetail validates program detail request
func GetProgramDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		programIDStr := strings.TrimSpace(c.Params("id"))
		if programIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Program ID is required!", nil)
		}

		programID, err := strconv.Atoi(programIDStr)
		if err != nil || programID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Program ID!", nil)
		}

		c.Locals("programID", programID)
		return c.Next()
	}
}

// UpdateProgram validates program update request
func UpdateProgram() fiber.Handler {
	return func(c *fiber.Ctx) error {
		programIDStr := strings.TrimSpace(c.Params("id"))
		if programIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Program ID is required!", nil)
		}

		programID, err := strconv.Atoi(programIDStr)
		if err != nil || programID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Program ID!", nil)
		}

		c.Locals("programID", programID)
		return c.Next()
	}
}

// EnrollProgram validates program enrollment request
func EnrollProgram() fiber.Handler {
	return func(c *fiber.Ctx) error {
		programIDStr := strings.TrimSpace(c.Params("id"))
		if programIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Program ID is required!", nil)
		}

		programID, err := strconv.Atoi(programIDStr)
		if err != nil || programID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Program ID!", nil)
		}

		c.Locals("programID", programID)
		return c.Next()
	}
}

// CreateSemester validates semester creation request
func CreateSemester() fiber.Handler {
	return func(c *fiber.Ctx) error {
		programIDStr := strings.TrimSpace(c.Params("id"))
		if programIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Program ID is required!", nil)
		}

		programID, err := strconv.Atoi(programIDStr)
		if err != nil || programID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Program ID!", nil)
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.Title == "" {
			errors["title"] = "Semester title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Semester title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("programID", programID)
		c.Locals("validatedSemester", reqData)
		return c.Next()
	}
}

// MarkSemesterComplete validates the administrative completion request
func MarkSemesterComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		semesterIDStr := strings.TrimSpace(c.Params("semester_id"))
		if semesterIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Semester ID is required!", nil)
		}

		semesterID, err := strconv.Atoi(semesterIDStr)
		if err != nil || semesterID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Semester ID!", nil)
		}

		c.Locals("semesterID", semesterID)
		return c.Next()
	}
}

// GetSemesterContent validates the semester content request
func GetSemesterContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		programIDStr := strings.TrimSpace(c.Params("id"))
		numberStr := strings.TrimSpace(c.Params("number"))

		if programIDStr == "" || numberStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Program ID and semester number are required!", nil)
		}

		programID, err := strconv.Atoi(programIDStr)
		if err != nil || programID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Program ID!", nil)
		}

		semesterNumber, err := strconv.Atoi(numberStr)
		if err != nil || semesterNumber <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid semester number!", nil)
		}

		c.Locals("programID", programID)
		c.Locals("semesterNumber", semesterNumber)
		return c.Next()
	}
}

// GetSemesterProgress validates the semester progress request
func GetSemesterProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		semesterIDStr := strings.TrimSpace(c.Params("semester_id"))
		if semesterIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Semester ID is required!", nil)
		}

		semesterID, err := strconv.Atoi(semesterIDStr)
		if err != nil || semesterID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Semester ID!", nil)
		}

		c.Locals("semesterID", semesterID)
		return c.Next()
	}
}
