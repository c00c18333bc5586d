package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"madrasa/database"
	"madrasa/middleware"
	"madrasa/models"
	programModels "madrasa/models/program"
	"madrasa/progression"
	"madrasa/utils"
)

// RequestCertificate requests a completion certificate for a course. The
// full timeline must be cleared: every lesson completed and every exam
// passed. An empty course never qualifies.
func RequestCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Check enrollment
	var enrollment programModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	timeline, err := courseSequencer().TimelineForUser(c.Context(), userID, progression.ScopeRef{CourseID: uint(courseID)})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify completion!", nil)
	}
	if !progression.IsScopeFullyComplete(timeline) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", nil)
	}

	// Check if certificate already requested
	var existingRequest programModels.CertificateRequest
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingRequest).Error; err == nil {
		if existingRequest.Status == "PENDING" {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already pending!", nil)
		}
		if existingRequest.Status == "APPROVED" {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already issued!", nil)
		}
	}

	// Check if certificate already exists
	var existingCert programModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingCert).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already exists!", fiber.Map{
			"certificate": existingCert,
		})
	}

	cid := uint(courseID)
	request := programModels.CertificateRequest{
		UserID:       userID,
		CourseID:     &cid,
		EnrollmentID: enrollment.ID,
		Status:       "PENDING",
		RequestedAt:  time.Now(),
	}

	if err := database.Database.Db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit certificate request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate request submitted successfully!", request)
}

// ApproveCertificate approves a pending request and issues the
// certificate (admin)
func ApproveCertificate(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", adminID, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	requestID := c.Locals("requestID").(int)

	var request programModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}

	if request.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already reviewed!", nil)
	}

	reqData := new(struct {
		Approve bool   `json:"approve"`
		Reason  string `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	now := time.Now()
	if !reqData.Approve {
		request.Status = "REJECTED"
		request.RejectionReason = reqData.Reason
		if err := database.Database.Db.Save(&request).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject certificate request!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request rejected.", request)
	}

	certificate := programModels.Certificate{
		UserID:            request.UserID,
		CourseID:          request.CourseID,
		ProgramID:         request.ProgramID,
		CertificateNumber: uuid.NewString(),
		IssuedAt:          now,
	}

	request.Status = "APPROVED"
	request.ApprovedAt = &now
	request.ApprovedBy = &adminID

	tx := database.Database.Db.Begin()
	if err := tx.Create(&certificate).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}
	if err := tx.Save(&request).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate request!", nil)
	}
	tx.Commit()

	// Notify the student
	var student models.User
	database.Database.Db.Where("id = ?", request.UserID).First(&student)

	scopeTitle := ""
	if request.CourseID != nil {
		var course programModels.Course
		database.Database.Db.Where("id = ?", *request.CourseID).First(&course)
		scopeTitle = course.Title
	} else if request.ProgramID != nil {
		var prog programModels.Program
		database.Database.Db.Where("id = ?", *request.ProgramID).First(&prog)
		scopeTitle = prog.Title
	}

	if student.Email != "" {
		go func() {
			if err := utils.SendCertificateIssuedEmail(student.Name, student.Email, scopeTitle, certificate.CertificateNumber); err != nil {
				log.Printf("Error sending certificate email: %v", err)
			}
		}()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued successfully!", fiber.Map{
		"certificate": certificate,
		"request":     request,
	})
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type CertificateWithScope struct {
		programModels.Certificate
		ScopeTitle string `json:"scope_title"`
	}

	var certificates []programModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithScope, len(certificates))
	for i, cert := range certificates {
		result[i] = CertificateWithScope{Certificate: cert}
		if cert.CourseID != nil {
			var course programModels.Course
			database.Database.Db.Where("id = ?", *cert.CourseID).First(&course)
			result[i].ScopeTitle = course.Title
		} else if cert.ProgramID != nil {
			var prog programModels.Program
			database.Database.Db.Where("id = ?", *cert.ProgramID).First(&prog)
			result[i].ScopeTitle = prog.Title
		}
	}

	// Also get pending requests
	var pendingRequests []programModels.CertificateRequest
	database.Database.Db.Where("user_id = ? AND status = ? AND is_deleted = ?", userID, "PENDING", false).Find(&pendingRequests)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates":     result,
		"pending_requests": len(pendingRequests),
	})
}
