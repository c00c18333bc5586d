package program

import "gorm.io/gorm"

// Lesson is a video lesson belonging to either a course or a program
// semester (exactly one of CourseID/SemesterID is set). OrderIndex is
// shared with exams of the same scope: next index is
// max(lesson order, exam order)+1 at creation time.
type Lesson struct {
	gorm.Model
	CourseID        *uint  `json:"course_id" gorm:"index"`
	SemesterID      *uint  `json:"semester_id" gorm:"index"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds" gorm:"default:0"`
	IsFree          bool   `json:"is_free" gorm:"default:false"` // free preview
	OrderIndex      int    `json:"order_index" gorm:"default:0"`
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `gorm:"default:false"`
}

// LessonProgress tracks a student's watch state for one lesson. One row
// per (user, lesson); created on first watch event, updated afterwards,
// never deleted.
type LessonProgress struct {
	gorm.Model
	UserID         uint `json:"user_id" gorm:"index;not null"`
	LessonID       uint `json:"lesson_id" gorm:"index;not null"`
	WatchedSeconds int  `json:"watched_seconds" gorm:"default:0"`
	IsCompleted    bool `json:"is_completed" gorm:"default:false"`
	IsDeleted      bool `gorm:"default:false"`
}
