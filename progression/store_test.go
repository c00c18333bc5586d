package progression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"madrasa/models/program"
)

func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("openTestDB() failed: %v", err)
	}
	err = db.AutoMigrate(
		&program.Semester{},
		&program.Lesson{},
		&program.LessonProgress{},
		&program.Exam{},
		&program.ExamResult{},
	)
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM semesters")
		db.Exec("DELETE FROM lessons")
		db.Exec("DELETE FROM lesson_progresses")
		db.Exec("DELETE FROM exams")
		db.Exec("DELETE FROM exam_results")
	})
	return db
}

func seedLesson(t *testing.T, db *gorm.DB, courseID, semesterID *uint, order int, published bool) program.Lesson {
	lesson := program.Lesson{
		CourseID:    courseID,
		SemesterID:  semesterID,
		Title:       "lesson",
		VideoURL:    "https://cdn.example.com/v.mp4",
		OrderIndex:  order,
		IsPublished: published,
	}
	if err := db.Create(&lesson).Error; err != nil {
		t.Fatalf("seedLesson() failed: %v", err)
	}
	return lesson
}

func seedExam(t *testing.T, db *gorm.DB, courseID, semesterID *uint, order int, published bool) program.Exam {
	exam := program.Exam{
		CourseID:    courseID,
		SemesterID:  semesterID,
		Title:       "exam",
		TotalMarks:  100,
		PassMarks:   40,
		OrderIndex:  order,
		IsPublished: published,
	}
	if err := db.Create(&exam).Error; err != nil {
		t.Fatalf("seedExam() failed: %v", err)
	}
	return exam
}

func uintPtr(v uint) *uint { return &v }

func TestGormStoreListContentItemsScoping(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	courseID := uintPtr(1)
	otherCourse := uintPtr(2)
	semesterID := uintPtr(7)

	seedLesson(t, db, courseID, nil, 1, true)
	seedExam(t, db, courseID, nil, 2, true)
	seedLesson(t, db, courseID, nil, 3, false) // unpublished, hidden
	seedLesson(t, db, otherCourse, nil, 1, true)
	seedLesson(t, db, nil, semesterID, 1, true)

	items, err := store.ListContentItems(ctx, ScopeRef{CourseID: 1})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = store.ListContentItems(ctx, ScopeRef{SemesterID: 7})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, KindLesson, items[0].Kind)
}

func TestGormStoreListCompletedLessons(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	courseID := uintPtr(1)
	done := seedLesson(t, db, courseID, nil, 1, true)
	partial := seedLesson(t, db, courseID, nil, 2, true)

	require.NoError(t, db.Create(&program.LessonProgress{UserID: 1, LessonID: done.ID, IsCompleted: true}).Error)
	require.NoError(t, db.Create(&program.LessonProgress{UserID: 1, LessonID: partial.ID, WatchedSeconds: 30}).Error)

	completed, err := store.ListCompletedLessons(ctx, 1, []uint{done.ID, partial.ID})
	require.NoError(t, err)
	assert.True(t, completed[done.ID])
	assert.False(t, completed[partial.ID])

	// other users see nothing
	completed, err = store.ListCompletedLessons(ctx, 2, []uint{done.ID})
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestGormStoreListAuthoritativeResults(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	exam := seedExam(t, db, uintPtr(1), nil, 1, true)

	// superseded first attempt and the authoritative retake
	require.NoError(t, db.Create(&program.ExamResult{
		UserID: 1, ExamID: exam.ID, ObtainedMarks: 10, Percentage: 10, IsLatest: false, AttemptNumber: 1,
	}).Error)
	require.NoError(t, db.Create(&program.ExamResult{
		UserID: 1, ExamID: exam.ID, ObtainedMarks: 70, Percentage: 70, IsLatest: true, IsPassed: true, AttemptNumber: 2,
	}).Error)

	results, err := store.ListAuthoritativeResults(ctx, 1, []uint{exam.ID})
	require.NoError(t, err)
	require.Contains(t, results, exam.ID)
	assert.Equal(t, 70, results[exam.ID].ObtainedMarks)
}

func TestGormStoreGetSemester(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&program.Semester{
		ProgramID:      3,
		SemesterNumber: 1,
		Title:          "Semester One",
		IsCompleted:    true,
	}).Error)

	info, err := store.GetSemester(ctx, 3, 1)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.IsCompleted)

	// absent semester is nil, not an error
	info, err = store.GetSemester(ctx, 3, 2)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestGormStoreNextOrderIndex(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	courseID := uintPtr(1)

	// empty scope starts at 1
	next, err := store.NextOrderIndex(ctx, ScopeRef{CourseID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	seedLesson(t, db, courseID, nil, 1, true)
	seedExam(t, db, courseID, nil, 2, true)

	// counter spans both tables
	next, err = store.NextOrderIndex(ctx, ScopeRef{CourseID: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}
