package courseValidator

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	courseControllers "madrasa/controllers/course"
	"madrasa/middleware"
)

var validate = validator.New()

// CourseList validates course listing request with pagination
func CourseList() fiber.Handler {
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

// GetCourseDetail validates course detail request
func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// EnrollCourse validates course enrollment request
func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CourseTimeline validates course timeline request
func CourseTimeline() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// GetLesson validates lesson fetch request
func GetLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("lesson_id"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// MarkLessonWatched validates the watch progress request
func MarkLessonWatched() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("lesson_id"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(struct {
			WatchedSeconds int  `json:"watched_seconds"`
			IsCompleted    bool `json:"is_completed"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.WatchedSeconds < 0 {
			errors["watched_seconds"] = "Watched seconds cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// GetExam validates exam fetch request
func GetExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		examIDStr := strings.TrimSpace(c.Params("exam_id"))
		if examIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Exam ID is required!", nil)
		}

		examID, err := strconv.Atoi(examIDStr)
		if err != nil || examID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}

		c.Locals("examID", examID)
		return c.Next()
	}
}

// SubmitExam validates an exam submission. The body is the answer list
// itself, one entry per question.
func SubmitExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		examIDStr := strings.TrimSpace(c.Params("exam_id"))
		if examIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Exam ID is required!", nil)
		}

		examID, err := strconv.Atoi(examIDStr)
		if err != nil || examID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}

		answers := new([]courseControllers.ExamAnswer)
		if err := c.BodyParser(answers); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(*answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}

		for i, answer := range *answers {
			if err := validate.Struct(answer); err != nil {
				errors["answers["+strconv.Itoa(i)+"]"] = "Question ID and at least one selected option are required!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("examID", examID)
		c.Locals("validatedExamSubmit", answers)
		return c.Next()
	}
}

// GetExamResults validates exam results request
func GetExamResults() fiber.Handler {
	return func(c *fiber.Ctx) error {
		examIDStr := strings.TrimSpace(c.Params("exam_id"))
		if examIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Exam ID is required!", nil)
		}

		examID, err := strconv.Atoi(examIDStr)
		if err != nil || examID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}

		c.Locals("examID", examID)
		return c.Next()
	}
}

// RequestRetake validates retake request submission
func RequestRetake() fiber.Handler {
	return func(c *fiber.Ctx) error {
		examIDStr := strings.TrimSpace(c.Params("exam_id"))
		if examIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Exam ID is required!", nil)
		}

		examID, err := strconv.Atoi(examIDStr)
		if err != nil || examID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}

		c.Locals("examID", examID)
		return c.Next()
	}
}

// RequestCertificate validates certificate request submission
func RequestCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
