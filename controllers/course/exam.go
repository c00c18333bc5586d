package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"madrasa/config"
	"madrasa/database"
	"madrasa/middleware"
	"madrasa/models"
	programModels "madrasa/models/program"
	"madrasa/progression"
)

var errEnrollmentRequired = errors.New("Please enroll first to access this exam!")

func semesterPolicy() progression.PassPolicy {
	return progression.PercentPolicy{Threshold: float64(config.AppConfig.SemesterPassPercent)}
}

// ExamAnswer is one answered question of a submission
type ExamAnswer struct {
	QuestionID        uint   `json:"question_id" validate:"required"`
	SelectedOptionIDs []uint `json:"selected_option_ids" validate:"required,min=1"`
}

// GetExam returns an exam with its questions and options for taking.
// Correct flags are stripped so answers are never exposed.
func GetExam(c *fiber.Ctx) error {
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
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", examID, false, true).First(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	if err := checkExamEnrollment(userID, exam); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
	}

	var questions []programModels.ExamQuestion
	database.Database.Db.Where("exam_id = ? AND is_deleted = ?", exam.ID, false).
		Order("order_index asc").Find(&questions)

	type QuestionWithOptions struct {
		programModels.ExamQuestion
		Options []programModels.ExamOption `json:"options"`
	}

	result := make([]QuestionWithOptions, len(questions))
	for i, question := range questions {
		var options []programModels.ExamOption
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", question.ID, false).
			Order("order_index asc").Find(&options)
		// Remove IsCorrect from options for students (don't show answers)
		for j := range options {
			options[j].IsCorrect = false
		}
		result[i] = QuestionWithOptions{ExamQuestion: question, Options: options}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam fetched successfully!", fiber.Map{
		"exam":      exam,
		"questions": result,
	})
}

// SubmitExam evaluates a submission and records the result. Retakes flip
// the IsLatest flag on prior rows in the same transaction, so exactly one
// result per (user, exam) stays authoritative.
func SubmitExam(c *fiber.Ctx) error {
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
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", examID, false, true).First(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	if err := checkExamEnrollment(userID, exam); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
	}

	answers, ok := c.Locals("validatedExamSubmit").(*[]ExamAnswer)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// A prior attempt blocks resubmission unless a retake was approved
	var prior programModels.ExamResult
	hasPrior := database.Database.Db.
		Where("user_id = ? AND exam_id = ? AND is_latest = ? AND is_deleted = ?", userID, exam.ID, true, false).
		First(&prior).Error == nil
	if hasPrior {
		if prior.IsPassed {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already passed this exam!", nil)
		}
		if !prior.CanRetake {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already attempted this exam. Request a retake first!", nil)
		}
	}

	var questions []programModels.ExamQuestion
	database.Database.Db.Where("exam_id = ? AND is_deleted = ?", exam.ID, false).Find(&questions)

	optionsByQuestion := make(map[uint][]programModels.ExamOption)
	for _, question := range questions {
		var options []programModels.ExamOption
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", question.ID, false).Find(&options)
		optionsByQuestion[question.ID] = options
	}

	selected := make(map[uint][]uint)
	for _, answer := range *answers {
		selected[answer.QuestionID] = answer.SelectedOptionIDs
	}

	obtained, total := scoreExam(questions, optionsByQuestion, selected)

	percentage := float64(0)
	if total > 0 {
		percentage = float64(obtained) / float64(total) * 100
	}

	outcome := progression.ExamOutcome{ObtainedMarks: obtained, Percentage: percentage}
	item := progression.ContentItem{Kind: progression.KindExam, PassMarks: exam.PassMarks, TotalMarks: exam.TotalMarks}
	isPassed := examPolicy(exam).Passed(item, outcome)

	result := programModels.ExamResult{
		UserID:        userID,
		ExamID:        exam.ID,
		ObtainedMarks: obtained,
		TotalMarks:    total,
		Percentage:    percentage,
		IsPassed:      isPassed,
		IsLatest:      true,
		AttemptNumber: prior.AttemptNumber + 1,
	}

	tx := database.Database.Db.Begin()
	if hasPrior {
		if err := tx.Model(&programModels.ExamResult{}).
			Where("user_id = ? AND exam_id = ? AND is_deleted = ?", userID, exam.ID, false).
			Update("is_latest", false).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit exam!", nil)
		}
	}
	if err := tx.Create(&result).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit exam!", nil)
	}
	tx.Commit()

	if isPassed && exam.CourseID != nil {
		updateEnrollmentProgress(userID, *exam.CourseID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam submitted!", fiber.Map{
		"result":     result,
		"is_passed":  isPassed,
		"obtained":   obtained,
		"total":      total,
		"percentage": percentage,
	})
}

// GetExamResults returns the student's attempt history for an exam
func GetExamResults(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	examID := c.Locals("examID").(int)

	var results []programModels.ExamResult
	if err := database.Database.Db.
		Where("user_id = ? AND exam_id = ? AND is_deleted = ?", userID, examID, false).
		Order("attempt_number desc").
		Find(&results).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully!", fiber.Map{
		"results": results,
	})
}

// examPolicy picks the pass rule for an exam's scope: course exams pass on
// their own pass marks, semester exams on the flat percentage bar
func examPolicy(exam programModels.Exam) progression.PassPolicy {
	if exam.SemesterID != nil && *exam.SemesterID != 0 {
		return semesterPolicy()
	}
	return progression.MarksPolicy{}
}

// scoreExam marks a submission: a question earns its marks only when the
// selected option set matches the correct set exactly
func scoreExam(questions []programModels.ExamQuestion, optionsByQuestion map[uint][]programModels.ExamOption, selected map[uint][]uint) (obtained, total int) {
	for _, question := range questions {
		total += question.Marks

		correct := make(map[uint]bool)
		for _, option := range optionsByQuestion[question.ID] {
			if option.IsCorrect {
				correct[option.ID] = true
			}
		}

		chosen := selected[question.ID]
		if len(chosen) != len(correct) || len(correct) == 0 {
			continue
		}
		allCorrect := true
		for _, id := range chosen {
			if !correct[id] {
				allCorrect = false
				break
			}
		}
		if allCorrect {
			obtained += question.Marks
		}
	}
	return obtained, total
}

// checkExamEnrollment verifies the student is enrolled in the scope the
// exam belongs to
func checkExamEnrollment(userID uint, exam programModels.Exam) error {
	db := database.Database.Db

	if exam.CourseID != nil && *exam.CourseID != 0 {
		var enrollment programModels.Enrollment
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, *exam.CourseID, false).First(&enrollment).Error; err != nil {
			return errEnrollmentRequired
		}
		return nil
	}

	if exam.SemesterID != nil && *exam.SemesterID != 0 {
		var semester programModels.Semester
		if err := db.Where("id = ? AND is_deleted = ?", *exam.SemesterID, false).First(&semester).Error; err != nil {
			log.Printf("Exam %d references missing semester %d", exam.ID, *exam.SemesterID)
			return errEnrollmentRequired
		}
		var enrollment programModels.Enrollment
		if err := db.Where("user_id = ? AND program_id = ? AND is_deleted = ?", userID, semester.ProgramID, false).First(&enrollment).Error; err != nil {
			return errEnrollmentRequired
		}
		return nil
	}

	return errEnrollmentRequired
}
