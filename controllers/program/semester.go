package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"madrasa/config"
	"madrasa/database"
	"madrasa/middleware"
	"madrasa/models"
	programModels "madrasa/models/program"
	"madrasa/progression"
)

func newGate() *progression.Gate {
	store := progression.NewGormStore(database.Database.Db)
	return progression.NewGate(store, float64(config.AppConfig.SemesterPassPercent))
}

// GetProgramDetails returns a program with its semesters, each annotated
// with the student's access decision
func GetProgramDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	programID := c.Locals("programID").(int)

	var prog programModels.Program
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", programID, false, true).First(&prog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	var semesters []programModels.Semester
	database.Database.Db.Where("program_id = ? AND is_deleted = ?", programID, false).
		Order("semester_number asc").Find(&semesters)

	// Check if user is enrolled
	var enrollment programModels.Enrollment
	isEnrolled := database.Database.Db.Where("user_id = ? AND program_id = ? AND is_deleted = ?", userID, programID, false).First(&enrollment).Error == nil

	type SemesterWithAccess struct {
		programModels.Semester
		Access progression.AccessDecision `json:"access"`
	}

	gate := newGate()
	result := make([]SemesterWithAccess, len(semesters))
	for i, semester := range semesters {
		decision, err := gate.CanAccessSemester(c.Context(), userID, uint(programID), semester.SemesterNumber)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to evaluate semester access!", nil)
		}
		result[i] = SemesterWithAccess{Semester: semester, Access: decision}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program details fetched successfully!", fiber.Map{
		"program":     prog,
		"semesters":   result,
		"is_enrolled": isEnrolled,
		"enrollment":  enrollment,
	})
}

// EnrollInProgram enrolls the student in a program
func EnrollInProgram(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	programID := c.Locals("programID").(int)

	var prog programModels.Program
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", programID, false, true).First(&prog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found or not published!", nil)
	}

	var existingEnrollment programModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND program_id = ? AND is_deleted = ?", userID, programID, false).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this program!", nil)
	}

	pid := uint(programID)
	enrollment := programModels.Enrollment{
		UserID:    userID,
		ProgramID: &pid,
		Status:    "ENROLLED",
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in program!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in program successfully!", enrollment)
}

// GetSemesterContent returns the annotated timeline of one semester plus
// the resume pointer. Access is decided by the progression gate before
// any content is returned.
func GetSemesterContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	programID := c.Locals("programID").(int)
	semesterNumber := c.Locals("semesterNumber").(int)

	// Check enrollment
	var enrollment programModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND program_id = ? AND is_deleted = ?", userID, programID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this program first!", nil)
	}

	gate := newGate()
	decision, err := gate.CanAccessSemester(c.Context(), userID, uint(programID), semesterNumber)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to evaluate semester access!", nil)
	}
	if !decision.CanAccess {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, fiber.Map{
			"access": decision,
		})
	}

	var semester programModels.Semester
	if err := database.Database.Db.Where("program_id = ? AND semester_number = ? AND is_deleted = ?", programID, semesterNumber, false).First(&semester).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Semester not found!", nil)
	}

	sequencer := progression.NewSequencer(
		progression.NewGormStore(database.Database.Db),
		progression.PercentPolicy{Threshold: float64(config.AppConfig.SemesterPassPercent)},
	)

	timeline, err := sequencer.TimelineForUser(c.Context(), userID, progression.ScopeRef{SemesterID: semester.ID})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build timeline!", nil)
	}

	resumeID, err := progression.PickResumeTarget(timeline)
	if err != nil {
		if errors.Is(err, progression.ErrNoContent) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "This semester has no content yet!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build timeline!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Semester content fetched successfully!", fiber.Map{
		"semester":    semester,
		"timeline":    timeline,
		"resume_id":   resumeID,
		"is_complete": progression.IsScopeFullyComplete(timeline),
	})
}

// GetSemesterProgress returns lesson/exam counts and the overall
// percentage for one semester (progress bars, admin dashboards)
func GetSemesterProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	semesterID := c.Locals("semesterID").(int)

	var semester programModels.Semester
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", semesterID, false).First(&semester).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Semester not found!", nil)
	}

	gate := newGate()
	progress, err := gate.ComputeSemesterProgress(c.Context(), userID, uint(semesterID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"semester": semester,
		"progress": progress,
	})
}
