package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"madrasa/middleware"
)

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Instructor  string `json:"instructor"`
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

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseAdmin validates admin course update request
func UpdateCourseAdmin() fiber.Handler {
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

// CreateLesson validates lesson creation request. A lesson belongs to
// either a course or a semester, never both.
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID        *uint  `json:"course_id"`
			SemesterID      *uint  `json:"semester_id"`
			Title           string `json:"title"`
			Description     string `json:"description"`
			VideoURL        string `json:"video_url"`
			DurationSeconds int    `json:"duration_seconds"`
			IsFree          bool   `json:"is_free"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.VideoURL = strings.TrimSpace(reqData.VideoURL)

		if reqData.CourseID == nil && reqData.SemesterID == nil {
			errors["scope"] = "Either course_id or semester_id is required!"
		} else if reqData.CourseID != nil && reqData.SemesterID != nil {
			errors["scope"] = "A lesson cannot belong to both a course and a semester!"
		}

		if reqData.Title == "" {
			errors["title"] = "Lesson title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Lesson title must be at least 3 characters long!"
		}

		if reqData.VideoURL == "" {
			errors["video_url"] = "Video URL is required!"
		}

		if reqData.DurationSeconds <= 0 {
			errors["duration_seconds"] = "Duration must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// PublishLesson validates lesson publish request
func PublishLesson() fiber.Handler {
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

// CreateExamAdmin validates exam creation request with its question
// bank. Every question needs at least two options and one correct
// answer.
func CreateExamAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID        *uint  `json:"course_id"`
			SemesterID      *uint  `json:"semester_id"`
			Title           string `json:"title"`
			Description     string `json:"description"`
			PassMarks       int    `json:"pass_marks"`
			DurationMinutes int    `json:"duration_minutes"`
			Questions       []struct {
				QuestionText string `json:"question_text"`
				Marks        int    `json:"marks"`
				Options      []struct {
					OptionText string `json:"option_text"`
					IsCorrect  bool   `json:"is_correct"`
				} `json:"options"`
			} `json:"questions"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.CourseID == nil && reqData.SemesterID == nil {
			errors["scope"] = "Either course_id or semester_id is required!"
		} else if reqData.CourseID != nil && reqData.SemesterID != nil {
			errors["scope"] = "An exam cannot belong to both a course and a semester!"
		}

		if reqData.Title == "" {
			errors["title"] = "Exam title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Exam title must be at least 3 characters long!"
		}

		if reqData.PassMarks <= 0 {
			errors["pass_marks"] = "Pass marks must be a positive number!"
		}

		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}

		for i, question := range reqData.Questions {
			key := "questions[" + strconv.Itoa(i) + "]"
			if strings.TrimSpace(question.QuestionText) == "" {
				errors[key] = "Question text is required!"
				continue
			}
			if len(question.Options) < 2 {
				errors[key] = "Each question needs at least two options!"
				continue
			}
			hasCorrect := false
			for _, option := range question.Options {
				if option.IsCorrect {
					hasCorrect = true
					break
				}
			}
			if !hasCorrect {
				errors[key] = "Each question needs at least one correct option!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExam", reqData)
		return c.Next()
	}
}

// PublishExam validates exam publish request
func PublishExam() fiber.Handler {
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

// ReviewRetake validates retake review request
func ReviewRetake() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestIDStr := strings.TrimSpace(c.Params("request_id"))
		if requestIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Request ID is required!", nil)
		}

		requestID, err := strconv.Atoi(requestIDStr)
		if err != nil || requestID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		c.Locals("requestID", requestID)
		return c.Next()
	}
}

// ApproveCertificate validates certificate approval request
func ApproveCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestIDStr := strings.TrimSpace(c.Params("request_id"))
		if requestIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Request ID is required!", nil)
		}

		requestID, err := strconv.Atoi(requestIDStr)
		if err != nil || requestID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		c.Locals("requestID", requestID)
		return c.Next()
	}
}
