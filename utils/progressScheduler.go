package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"madrasa/database"
	"madrasa/models/program"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[PROGRESS-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// InitializeProgressScheduler sets up the nightly reconciliation jobs
func InitializeProgressScheduler() {
	logScheduler("Initializing progress scheduler...")

	c := cron.New()

	// Run daily at 2 AM: reconcile enrollment counters and expire stale
	// retake requests
	c.AddFunc("0 2 * * *", func() {
		logScheduler("Running nightly reconciliation...")
		ReconcileEnrollmentProgress()
		ExpireStaleRetakeRequests()
	})

	c.Start()
	logScheduler("Progress scheduler started - runs daily at 2 AM")
}

// ReconcileEnrollmentProgress recomputes the denormalized progress
// counters on course enrollments from the completion and result rows.
// Counters drift when content is added or unpublished after students
// already completed parts of a course.
func ReconcileEnrollmentProgress() {
	db := database.Database.Db

	var enrollments []program.Enrollment
	if err := db.Where("is_deleted = ? AND course_id IS NOT NULL", false).Find(&enrollments).Error; err != nil {
		logScheduler("Failed to fetch enrollments: " + err.Error())
		return
	}

	updated := 0
	for _, enrollment := range enrollments {
		var totalLessons, totalExams int64
		db.Model(&program.Lesson{}).
			Where("course_id = ? AND is_deleted = ? AND is_published = ?", *enrollment.CourseID, false, true).
			Count(&totalLessons)
		db.Model(&program.Exam{}).
			Where("course_id = ? AND is_deleted = ? AND is_published = ?", *enrollment.CourseID, false, true).
			Count(&totalExams)

		var completedLessons, passedExams int64
		db.Model(&program.LessonProgress{}).
			Joins("JOIN lessons ON lesson_progresses.lesson_id = lessons.id").
			Where("lesson_progresses.user_id = ? AND lessons.course_id = ? AND lesson_progresses.is_completed = ? AND lesson_progresses.is_deleted = ?",
				enrollment.UserID, *enrollment.CourseID, true, false).
			Count(&completedLessons)
		db.Model(&program.ExamResult{}).
			Joins("JOIN exams ON exam_results.exam_id = exams.id").
			Where("exam_results.user_id = ? AND exams.course_id = ? AND exam_results.is_latest = ? AND exam_results.is_passed = ? AND exam_results.is_deleted = ?",
				enrollment.UserID, *enrollment.CourseID, true, true, false).
			Count(&passedExams)

		total := int(totalLessons + totalExams)
		done := int(completedLessons + passedExams)

		enrollment.CompletedLessons = int(completedLessons)
		enrollment.PassedExams = int(passedExams)
		enrollment.TotalItems = total

		progress := float64(0)
		if total > 0 {
			progress = float64(done) / float64(total) * 100
		}
		enrollment.Progress = progress

		if progress >= 100 && total > 0 {
			if enrollment.Status != "COMPLETED" {
				enrollment.Status = "COMPLETED"
				now := time.Now()
				enrollment.CompletedAt = &now
			}
		} else if progress > 0 {
			enrollment.Status = "IN_PROGRESS"
		}

		if err := db.Save(&enrollment).Error; err != nil {
			logScheduler("Failed to save enrollment: " + err.Error())
			continue
		}
		updated++
	}

	log.Printf("[PROGRESS-SCHEDULER] Reconciled %d of %d enrollments", updated, len(enrollments))
}

// ExpireStaleRetakeRequests rejects retake requests pending for more than
// 30 days so failed exams do not stay in limbo forever.
func ExpireStaleRetakeRequests() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -30)

	result := db.Model(&program.RetakeRequest{}).
		Where("status = ? AND is_deleted = ? AND created_at < ?", "PENDING", false, cutoff).
		Updates(map[string]interface{}{
			"status":      "REJECTED",
			"review_note": "Request expired after 30 days without review.",
		})

	if result.Error != nil {
		logScheduler("Failed to expire retake requests: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[PROGRESS-SCHEDULER] Expired %d stale retake requests", result.RowsAffected)
	}
}
