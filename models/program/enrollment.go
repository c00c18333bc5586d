package program

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a student's enrollment in a course or a program with
// progress. Exactly one of CourseID/ProgramID is set.
type Enrollment struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"index;not null"`
	CourseID         *uint      `json:"course_id" gorm:"index"`
	ProgramID        *uint      `json:"program_id" gorm:"index"`
	Status           string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress         float64    `json:"progress" gorm:"default:0"`        // Completion percentage (0-100)
	CompletedLessons int        `json:"completed_lessons" gorm:"default:0"`
	PassedExams      int        `json:"passed_exams" gorm:"default:0"`
	TotalItems       int        `json:"total_items" gorm:"default:0"`
	CompletedAt      *time.Time `json:"completed_at"`
	IsDeleted        bool       `gorm:"default:false"`
}
