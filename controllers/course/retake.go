package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"madrasa/database"
	"madrasa/middleware"
	"madrasa/models"
	programModels "madrasa/models/program"
	"madrasa/utils"
)

// RequestRetake files a retake request for a failed exam
func RequestRetake(c *fiber.Ctx) error {
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

	// Retakes only make sense against a failed authoritative attempt
	var result programModels.ExamResult
	if err := database.Database.Db.
		Where("user_id = ? AND exam_id = ? AND is_latest = ? AND is_deleted = ?", userID, examID, true, false).
		First(&result).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You have not attempted this exam yet!", nil)
	}
	if result.IsPassed {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You have already passed this exam!", nil)
	}
	if result.CanRetake {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A retake is already approved for this exam!", nil)
	}

	var existing programModels.RetakeRequest
	if err := database.Database.Db.
		Where("user_id = ? AND exam_id = ? AND status = ? AND is_deleted = ?", userID, examID, "PENDING", false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Retake request already pending!", nil)
	}

	reqData := new(struct {
		Reason string `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	request := programModels.RetakeRequest{
		UserID:       userID,
		ExamID:       exam.ID,
		ExamResultID: result.ID,
		Reason:       reqData.Reason,
	}

	if err := database.Database.Db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit retake request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Retake request submitted successfully!", request)
}

// ListRetakeRequests lists pending retake requests (admin/ustadh)
func ListRetakeRequests(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var requests []programModels.RetakeRequest
	if err := database.Database.Db.
		Where("status = ? AND is_deleted = ?", "PENDING", false).
		Order("created_at asc").
		Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch retake requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Retake requests fetched successfully!", fiber.Map{
		"requests": requests,
		"total":    len(requests),
	})
}

// ReviewRetake approves or rejects a retake request (admin/ustadh).
// Approval flips CanRetake on the failed result; the student's next
// submission then becomes the authoritative attempt.
func ReviewRetake(c *fiber.Ctx) error {
	reviewerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var reviewer models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reviewerID, false).First(&reviewer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	requestID := c.Locals("requestID").(int)

	var request programModels.RetakeRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Retake request not found!", nil)
	}

	if request.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Retake request already reviewed!", nil)
	}

	reqData := new(struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	now := time.Now()
	request.ReviewedBy = &reviewerID
	request.ReviewedAt = &now
	request.ReviewNote = reqData.Note

	tx := database.Database.Db.Begin()
	if reqData.Approve {
		request.Status = "APPROVED"
		if err := tx.Model(&programModels.ExamResult{}).
			Where("id = ?", request.ExamResultID).
			Update("can_retake", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve retake!", nil)
		}
	} else {
		request.Status = "REJECTED"
	}
	if err := tx.Save(&request).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to review retake!", nil)
	}
	tx.Commit()

	// Notify the student
	var student models.User
	var exam programModels.Exam
	database.Database.Db.Where("id = ?", request.UserID).First(&student)
	database.Database.Db.Where("id = ?", request.ExamID).First(&exam)
	if student.Email != "" {
		go func() {
			if err := utils.SendRetakeDecisionEmail(student.Name, student.Email, exam.Title, reqData.Approve, reqData.Note); err != nil {
				log.Printf("Error sending retake decision email: %v", err)
			}
		}()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Retake request reviewed successfully!", request)
}
