package progression

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"madrasa/models/program"
)

// GormStore implements Store over the application database. Lessons and
// exams of a scope live in separate tables and are fetched concurrently.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore returns a Store backed by the given database handle
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) scoped(db *gorm.DB, scope ScopeRef) *gorm.DB {
	if scope.SemesterID != 0 {
		return db.Where("semester_id = ?", scope.SemesterID)
	}
	return db.Where("course_id = ?", scope.CourseID)
}

// ListContentItems returns the published lessons and exams of a scope as
// one unordered item list.
func (s *GormStore) ListContentItems(ctx context.Context, scope ScopeRef) ([]ContentItem, error) {
	var (
		lessons []program.Lesson
		exams   []program.Exam
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.scoped(s.DB.WithContext(groupCtx), scope).
			Where("is_deleted = ? AND is_published = ?", false, true).
			Find(&lessons).Error
	})
	group.Go(func() error {
		return s.scoped(s.DB.WithContext(groupCtx), scope).
			Where("is_deleted = ? AND is_published = ?", false, true).
			Find(&exams).Error
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	items := make([]ContentItem, 0, len(lessons)+len(exams))
	for _, lesson := range lessons {
		items = append(items, ContentItem{
			ID:              lesson.ID,
			Kind:            KindLesson,
			OrderIndex:      lesson.OrderIndex,
			DurationSeconds: lesson.DurationSeconds,
			IsFree:          lesson.IsFree,
		})
	}
	for _, exam := range exams {
		items = append(items, ContentItem{
			ID:            exam.ID,
			Kind:          KindExam,
			OrderIndex:    exam.OrderIndex,
			TotalMarks:    exam.TotalMarks,
			PassMarks:     exam.PassMarks,
			QuestionCount: exam.QuestionCount,
		})
	}
	return items, nil
}

// ListCompletedLessons returns the lesson ids the user has fully watched
func (s *GormStore) ListCompletedLessons(ctx context.Context, userID uint, lessonIDs []uint) (map[uint]bool, error) {
	completed := make(map[uint]bool)
	if len(lessonIDs) == 0 {
		return completed, nil
	}

	var rows []program.LessonProgress
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ? AND is_completed = ? AND is_deleted = ?", userID, lessonIDs, true, false).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		completed[row.LessonID] = true
	}
	return completed, nil
}

// ListAuthoritativeResults returns the IsLatest result per attempted exam
func (s *GormStore) ListAuthoritativeResults(ctx context.Context, userID uint, examIDs []uint) (map[uint]ExamOutcome, error) {
	results := make(map[uint]ExamOutcome)
	if len(examIDs) == 0 {
		return results, nil
	}

	var rows []program.ExamResult
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND exam_id IN ? AND is_latest = ? AND is_deleted = ?", userID, examIDs, true, false).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		results[row.ExamID] = ExamOutcome{
			ObtainedMarks: row.ObtainedMarks,
			Percentage:    row.Percentage,
		}
	}
	return results, nil
}

// GetSemester returns nil when the semester does not exist in the program
func (s *GormStore) GetSemester(ctx context.Context, programID uint, semesterNumber int) (*SemesterInfo, error) {
	var semester program.Semester
	err := s.DB.WithContext(ctx).
		Where("program_id = ? AND semester_number = ? AND is_deleted = ?", programID, semesterNumber, false).
		First(&semester).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &SemesterInfo{ID: semester.ID, IsCompleted: semester.IsCompleted}, nil
}

// NextOrderIndex computes the order for a new lesson or exam in a scope:
// max over both kinds plus one. Best-effort monotonic counter, not a
// transactional sequence; the sequencer's stable sort tolerates duplicates
// from concurrent creations.
func (s *GormStore) NextOrderIndex(ctx context.Context, scope ScopeRef) (int, error) {
	var maxLesson, maxExam int

	err := s.scoped(s.DB.WithContext(ctx).Model(&program.Lesson{}), scope).
		Where("is_deleted = ?", false).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&maxLesson).Error
	if err != nil {
		return 0, err
	}

	err = s.scoped(s.DB.WithContext(ctx).Model(&program.Exam{}), scope).
		Where("is_deleted = ?", false).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&maxExam).Error
	if err != nil {
		return 0, err
	}

	if maxExam > maxLesson {
		return maxExam + 1, nil
	}
	return maxLesson + 1, nil
}
