package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"madrasa/database"
	"madrasa/middleware"
	"madrasa/models"
	programModels "madrasa/models/program"
	"madrasa/progression"
)

func courseSequencer() *progression.Sequencer {
	return progression.NewSequencer(
		progression.NewGormStore(database.Database.Db),
		progression.MarksPolicy{},
	)
}

// GetCourseTimeline returns the ordered lesson/exam timeline of a course
// annotated with the student's completion and lock state, plus the entry
// the watch page should open.
func GetCourseTimeline(c *fiber.Ctx) error {
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
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Check enrollment
	var enrollment programModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	timeline, err := courseSequencer().TimelineForUser(c.Context(), userID, progression.ScopeRef{CourseID: uint(courseID)})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build timeline!", nil)
	}

	resumeID, err := progression.PickResumeTarget(timeline)
	if err != nil {
		if errors.Is(err, progression.ErrNoContent) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "This course has no content yet!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build timeline!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Timeline fetched successfully!", fiber.Map{
		"course":      course,
		"timeline":    timeline,
		"resume_id":   resumeID,
		"is_complete": progression.IsScopeFullyComplete(timeline),
	})
}

// GetLesson returns one lesson for playback. Locked lessons are rejected;
// free preview lessons are open even without enrollment.
func GetLesson(c *fiber.Ctx) error {
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
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", lessonID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if lesson.IsFree {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
	}

	if !lessonEnrolled(userID, lesson) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	scope, policy := lessonScope(lesson)
	sequencer := progression.NewSequencer(progression.NewGormStore(database.Database.Db), policy)
	timeline, err := sequencer.TimelineForUser(c.Context(), userID, scope)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check lesson access!", nil)
	}

	for _, entry := range timeline {
		if entry.Kind == progression.KindLesson && entry.ID == lesson.ID {
			if entry.IsLocked {
				return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This lesson is locked. Pass the previous exam first!", nil)
			}
			break
		}
	}

	var progress programModels.LessonProgress
	database.Database.Db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lesson.ID, false).First(&progress)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", fiber.Map{
		"lesson":   lesson,
		"progress": progress,
	})
}

// lessonEnrolled reports whether the user holds an enrollment covering
// the lesson's scope: the course itself, or the program owning the
// lesson's semester
func lessonEnrolled(userID uint, lesson programModels.Lesson) bool {
	db := database.Database.Db

	if lesson.CourseID != nil && *lesson.CourseID != 0 {
		var enrollment programModels.Enrollment
		return db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, *lesson.CourseID, false).
			First(&enrollment).Error == nil
	}

	if lesson.SemesterID != nil && *lesson.SemesterID != 0 {
		var semester programModels.Semester
		if err := db.Where("id = ? AND is_deleted = ?", *lesson.SemesterID, false).First(&semester).Error; err != nil {
			return false
		}
		var enrollment programModels.Enrollment
		return db.Where("user_id = ? AND program_id = ? AND is_deleted = ?", userID, semester.ProgramID, false).
			First(&enrollment).Error == nil
	}

	return false
}

// lessonScope resolves the scope and pass policy of a lesson
func lessonScope(lesson programModels.Lesson) (progression.ScopeRef, progression.PassPolicy) {
	if lesson.SemesterID != nil && *lesson.SemesterID != 0 {
		return progression.ScopeRef{SemesterID: *lesson.SemesterID}, semesterPolicy()
	}
	var courseID uint
	if lesson.CourseID != nil {
		courseID = *lesson.CourseID
	}
	return progression.ScopeRef{CourseID: courseID}, progression.MarksPolicy{}
}

// MarkLessonWatched records a watch event. The progress row is created on
// the first event and updated afterwards, never deleted.
func MarkLessonWatched(c *fiber.Ctx) error {
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
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", lessonID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	// Progress is only recorded for enrolled students, free previews
	// included
	if !lessonEnrolled(userID, lesson) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	reqData := new(struct {
		WatchedSeconds int  `json:"watched_seconds"`
		IsCompleted    bool `json:"is_completed"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var progress programModels.LessonProgress
	err := database.Database.Db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lesson.ID, false).First(&progress).Error
	if err != nil {
		progress = programModels.LessonProgress{
			UserID:         userID,
			LessonID:       lesson.ID,
			WatchedSeconds: reqData.WatchedSeconds,
			IsCompleted:    reqData.IsCompleted,
		}
		if err := database.Database.Db.Create(&progress).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
		}
	} else {
		if reqData.WatchedSeconds > progress.WatchedSeconds {
			progress.WatchedSeconds = reqData.WatchedSeconds
		}
		// completion never flips back to false from a watch event
		if reqData.IsCompleted {
			progress.IsCompleted = true
		}
		if err := database.Database.Db.Save(&progress).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
		}
	}

	if progress.IsCompleted && lesson.CourseID != nil {
		updateEnrollmentProgress(userID, *lesson.CourseID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved successfully!", progress)
}

// updateEnrollmentProgress refreshes the denormalized counters on a course
// enrollment after a completion event
func updateEnrollmentProgress(userID uint, courseID uint) {
	db := database.Database.Db

	var totalLessons, totalExams int64
	db.Model(&programModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&totalLessons)
	db.Model(&programModels.Exam{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&totalExams)

	var completedLessons, passedExams int64
	db.Model(&programModels.LessonProgress{}).
		Joins("JOIN lessons ON lesson_progresses.lesson_id = lessons.id").
		Where("lesson_progresses.user_id = ? AND lessons.course_id = ? AND lesson_progresses.is_completed = ? AND lesson_progresses.is_deleted = ?",
			userID, courseID, true, false).
		Count(&completedLessons)
	db.Model(&programModels.ExamResult{}).
		Joins("JOIN exams ON exam_results.exam_id = exams.id").
		Where("exam_results.user_id = ? AND exams.course_id = ? AND exam_results.is_latest = ? AND exam_results.is_passed = ? AND exam_results.is_deleted = ?",
			userID, courseID, true, true, false).
		Count(&passedExams)

	var enrollment programModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return
	}

	total := int(totalLessons + totalExams)
	done := int(completedLessons + passedExams)

	enrollment.CompletedLessons = int(completedLessons)
	enrollment.PassedExams = int(passedExams)
	enrollment.TotalItems = total

	if total > 0 {
		enrollment.Progress = float64(done) / float64(total) * 100
	}

	if enrollment.Progress >= 100 && total > 0 {
		enrollment.Status = "COMPLETED"
		now := time.Now()
		enrollment.CompletedAt = &now
	} else if enrollment.Progress > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	db.Save(&enrollment)
}
