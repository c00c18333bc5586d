package controllers

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"madrasa/database"
	"madrasa/models"
	programModels "madrasa/models/program"
)

// useTestDB swaps the global database handle for an in-memory sqlite
// instance for the duration of one test
func useTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("useTestDB() failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&programModels.Course{},
		&programModels.Semester{},
		&programModels.Lesson{},
		&programModels.LessonProgress{},
		&programModels.Exam{},
		&programModels.ExamResult{},
		&programModels.Enrollment{},
	)
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	prev := database.Database
	database.Database = database.DbInstance{Db: db}

	t.Cleanup(func() {
		db.Exec("DELETE FROM users")
		db.Exec("DELETE FROM courses")
		db.Exec("DELETE FROM semesters")
		db.Exec("DELETE FROM lessons")
		db.Exec("DELETE FROM lesson_progresses")
		db.Exec("DELETE FROM exams")
		db.Exec("DELETE FROM exam_results")
		db.Exec("DELETE FROM enrollments")
		database.Database = prev
	})
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, email string) models.User {
	user := models.User{
		Name:     "Bilal",
		Email:    email,
		Role:     "STUDENT",
		Password: "hashed",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seedStudent() failed: %v", err)
	}
	return user
}

func seedCourseLesson(t *testing.T, db *gorm.DB, free bool) (programModels.Course, programModels.Lesson) {
	course := programModels.Course{Title: "Tajweed Basics", IsPublished: true}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seedCourseLesson() failed: %v", err)
	}
	lesson := programModels.Lesson{
		CourseID:    &course.ID,
		Title:       "Makharij",
		VideoURL:    "https://cdn.example.com/v.mp4",
		OrderIndex:  1,
		IsFree:      free,
		IsPublished: true,
	}
	if err := db.Create(&lesson).Error; err != nil {
		t.Fatalf("seedCourseLesson() failed: %v", err)
	}
	return course, lesson
}

func enroll(t *testing.T, db *gorm.DB, userID, courseID uint) {
	enrollment := programModels.Enrollment{
		UserID:   userID,
		CourseID: &courseID,
		Status:   "ENROLLED",
	}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("enroll() failed: %v", err)
	}
}

// newLessonApp mounts the lesson handlers behind a stub that plants the
// locals the JWT middleware and validators normally provide
func newLessonApp(userID uint) *fiber.App {
	app := fiber.New()

	withLocals := func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		id, _ := strconv.Atoi(c.Params("lesson_id"))
		c.Locals("lessonID", id)
		return c.Next()
	}

	app.Get("/lesson/:lesson_id", withLocals, GetLesson)
	app.Post("/lesson/:lesson_id/watch", withLocals, MarkLessonWatched)
	return app
}

func TestGetLessonRequiresEnrollment(t *testing.T) {
	db := useTestDB(t)
	user := seedStudent(t, db, "bilal.lesson@example.com")
	course, lesson := seedCourseLesson(t, db, false)

	app := newLessonApp(user.ID)
	path := "/lesson/" + strconv.Itoa(int(lesson.ID))

	// not enrolled: the first lesson is unlocked but must not be served
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	enroll(t, db, user.ID, course.ID)

	resp, err = app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetLessonFreePreviewOpenWithoutEnrollment(t *testing.T) {
	db := useTestDB(t)
	user := seedStudent(t, db, "bilal.preview@example.com")
	_, lesson := seedCourseLesson(t, db, true)

	app := newLessonApp(user.ID)

	resp, err := app.Test(httptest.NewRequest("GET", "/lesson/"+strconv.Itoa(int(lesson.ID)), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMarkLessonWatchedRequiresEnrollment(t *testing.T) {
	db := useTestDB(t)
	user := seedStudent(t, db, "bilal.watch@example.com")
	course, lesson := seedCourseLesson(t, db, false)

	app := newLessonApp(user.ID)
	path := "/lesson/" + strconv.Itoa(int(lesson.ID)) + "/watch"
	body := `{"watched_seconds":30,"is_completed":true}`

	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// no progress row may exist for the rejected event
	var count int64
	db.Model(&programModels.LessonProgress{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)

	enroll(t, db, user.ID, course.ID)

	req = httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	db.Model(&programModels.LessonProgress{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
