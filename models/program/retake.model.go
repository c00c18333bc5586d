package program

import (
	"time"

	"gorm.io/gorm"
)

// RetakeRequest is a student's request to re-attempt a failed exam.
// Approval flips CanRetake on the failed ExamResult.
type RetakeRequest struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"index;not null"`
	ExamID       uint       `json:"exam_id" gorm:"index;not null"`
	ExamResultID uint       `json:"exam_result_id" gorm:"index;not null"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status" gorm:"default:'PENDING'"` // PENDING, APPROVED, REJECTED
	ReviewNote   string     `json:"review_note"`
	ReviewedBy   *uint      `json:"reviewed_by"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	IsDeleted    bool       `gorm:"default:false"`
}
