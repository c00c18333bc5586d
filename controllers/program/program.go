package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/database"
	"madrasa/middleware"
	"madrasa/models"
	programModels "madrasa/models/program"
)

// CreateProgram creates a new long program (admin)
func CreateProgram(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedProgram").(*struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Instructor     string `json:"instructor"`
		TotalSemesters int    `json:"total_semesters"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	prog := programModels.Program{
		Title:          reqData.Title,
		Description:    reqData.Description,
		Instructor:     reqData.Instructor,
		TotalSemesters: reqData.TotalSemesters,
	}

	if err := database.Database.Db.Create(&prog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create program!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Program created successfully!", prog)
}

// GetAllPrograms lists published programs for students
func GetAllPrograms(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, _ := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&programModels.Program{}).Where("is_deleted = ? AND is_published = ?", false, true)

	var total int64
	db.Count(&total)

	var programs []programModels.Program
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&programs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch programs!", nil)
	}

	response := map[string]interface{}{
		"programs": programs,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Programs fetched successfully!", response)
}

// UpdateProgram updates program fields and publish state (admin)
func UpdateProgram(c *fiber.Ctx) error {
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
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", programID, false).First(&prog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	reqData := new(struct {
		Title          *string `json:"title"`
		Description    *string `json:"description"`
		Instructor     *string `json:"instructor"`
		TotalSemesters *int    `json:"total_semesters"`
		IsPublished    *bool   `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != nil {
		prog.Title = *reqData.Title
	}
	if reqData.Description != nil {
		prog.Description = *reqData.Description
	}
	if reqData.Instructor != nil {
		prog.Instructor = *reqData.Instructor
	}
	if reqData.TotalSemesters != nil {
		prog.TotalSemesters = *reqData.TotalSemesters
	}
	if reqData.IsPublished != nil {
		prog.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&prog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update program!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program updated successfully!", prog)
}

// CreateSemester adds the next semester to a program (admin).
// SemesterNumber is assigned contiguously.
func CreateSemester(c *fiber.Ctx) error {
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
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", programID, false).First(&prog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	reqData, ok := c.Locals("validatedSemester").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var maxNumber int
	database.Database.Db.Model(&programModels.Semester{}).
		Where("program_id = ? AND is_deleted = ?", programID, false).
		Select("COALESCE(MAX(semester_number), 0)").
		Scan(&maxNumber)

	semester := programModels.Semester{
		ProgramID:      uint(programID),
		SemesterNumber: maxNumber + 1,
		Title:          reqData.Title,
		Description:    reqData.Description,
	}

	if err := database.Database.Db.Create(&semester).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create semester!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Semester created successfully!", semester)
}

// MarkSemesterComplete toggles the administrative completion flag on a
// semester (admin). This flag holds back the whole cohort: the next
// semester stays closed until staff flips it, no matter how far
// individual students are.
func MarkSemesterComplete(c *fiber.Ctx) error {
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

	reqData := new(struct {
		IsCompleted *bool `json:"is_completed"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.IsCompleted == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	semester.IsCompleted = *reqData.IsCompleted
	if err := database.Database.Db.Save(&semester).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update semester!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Semester updated successfully!", semester)
}
