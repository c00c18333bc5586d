package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/database"
	"madrasa/middleware"
	"madrasa/models"
	programModels "madrasa/models/program"
	"madrasa/progression"
)

// CreateCourse creates a standalone course (admin/ustadh)
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Instructor  string `json:"instructor"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := programModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Instructor:  reqData.Instructor,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates course fields and publish state (admin/ustadh)
func UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course programModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData := new(struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Instructor  *string `json:"instructor"`
		Duration    *int64  `json:"duration"`
		IsPublished *bool   `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Instructor != nil {
		course.Instructor = *reqData.Instructor
	}
	if reqData.Duration != nil {
		course.Duration = *reqData.Duration
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// resolveScope builds a progression scope from the optional course_id /
// semester_id of a create request
func resolveScope(courseID, semesterID *uint) (progression.ScopeRef, bool) {
	if courseID != nil && *courseID != 0 {
		return progression.ScopeRef{CourseID: *courseID}, true
	}
	if semesterID != nil && *semesterID != 0 {
		return progression.ScopeRef{SemesterID: *semesterID}, true
	}
	return progression.ScopeRef{}, false
}

// CreateLesson adds a lesson to a course or a semester (admin/ustadh).
// The order index comes from the shared lesson/exam counter of the scope.
func CreateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		CourseID        *uint  `json:"course_id"`
		SemesterID      *uint  `json:"semester_id"`
		Title           string `json:"title"`
		Description     string `json:"description"`
		VideoURL        string `json:"video_url"`
		DurationSeconds int    `json:"duration_seconds"`
		IsFree          bool   `json:"is_free"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	scope, ok := resolveScope(reqData.CourseID, reqData.SemesterID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Either course_id or semester_id is required!", nil)
	}

	store := progression.NewGormStore(database.Database.Db)
	orderIndex, err := store.NextOrderIndex(c.Context(), scope)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign order!", nil)
	}

	lesson := programModels.Lesson{
		CourseID:        reqData.CourseID,
		SemesterID:      reqData.SemesterID,
		Title:           reqData.Title,
		Description:     reqData.Description,
		VideoURL:        reqData.VideoURL,
		DurationSeconds: reqData.DurationSeconds,
		IsFree:          reqData.IsFree,
		OrderIndex:      orderIndex,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// PublishLesson toggles the publish flag of a lesson (admin/ustadh)
func PublishLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson programModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData := new(struct {
		IsPublished *bool `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.IsPublished == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	lesson.IsPublished = *reqData.IsPublished
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// CreateExam adds an exam with its questions and options to a course or a
// semester (admin/ustadh). Shares the order counter with lessons.
func CreateExam(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedExam").(*struct {
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
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	scope, ok := resolveScope(reqData.CourseID, reqData.SemesterID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Either course_id or semester_id is required!", nil)
	}

	store := progression.NewGormStore(database.Database.Db)
	orderIndex, err := store.NextOrderIndex(c.Context(), scope)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign order!", nil)
	}

	totalMarks := 0
	for _, q := range reqData.Questions {
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		totalMarks += marks
	}

	exam := programModels.Exam{
		CourseID:        reqData.CourseID,
		SemesterID:      reqData.SemesterID,
		Title:           reqData.Title,
		Description:     reqData.Description,
		TotalMarks:      totalMarks,
		PassMarks:       reqData.PassMarks,
		QuestionCount:   len(reqData.Questions),
		DurationMinutes: reqData.DurationMinutes,
		OrderIndex:      orderIndex,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&exam).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create exam!", nil)
	}

	for qi, q := range reqData.Questions {
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		question := programModels.ExamQuestion{
			ExamID:       exam.ID,
			QuestionText: q.QuestionText,
			Marks:        marks,
			OrderIndex:   qi + 1,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create exam questions!", nil)
		}
		for oi, opt := range q.Options {
			option := programModels.ExamOption{
				QuestionID: question.ID,
				OptionText: opt.OptionText,
				IsCorrect:  opt.IsCorrect,
				OrderIndex: oi + 1,
			}
			if err := tx.Create(&option).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create exam options!", nil)
			}
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Exam created successfully!", exam)
}

// PublishExam toggles the publish flag of an exam (admin/ustadh)
func PublishExam(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	examID := c.Locals("examID").(int)

	var exam programModels.Exam
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", examID, false).First(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	reqData := new(struct {
		IsPublished *bool `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.IsPublished == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	exam.IsPublished = *reqData.IsPublished
	if err := database.Database.Db.Save(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update exam!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam updated successfully!", exam)
}
