package program

import "gorm.io/gorm"

// Exam is an MCQ exam belonging to either a course or a program semester.
// Shares the OrderIndex sequence with lessons of the same scope.
type Exam struct {
	gorm.Model
	CourseID        *uint  `json:"course_id" gorm:"index"`
	SemesterID      *uint  `json:"semester_id" gorm:"index"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	TotalMarks      int    `json:"total_marks" gorm:"default:0"`
	PassMarks       int    `json:"pass_marks" gorm:"default:0"`
	QuestionCount   int    `json:"question_count" gorm:"default:0"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"`
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `gorm:"default:false"`
}

// ExamQuestion is one question of an exam
type ExamQuestion struct {
	gorm.Model
	ExamID       uint   `json:"exam_id" gorm:"index;not null"`
	QuestionText string `json:"question_text" gorm:"type:text"`
	Marks        int    `json:"marks" gorm:"default:1"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

// ExamOption is an answer option for a question
type ExamOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// ExamResult is one attempt at an exam. Retakes create new rows; exactly
// one row per (user, exam) carries IsLatest=true and is authoritative for
// gating. The flag is maintained by the submission transaction and the
// retake-approval workflow only.
type ExamResult struct {
	gorm.Model
	UserID        uint    `json:"user_id" gorm:"index;not null"`
	ExamID        uint    `json:"exam_id" gorm:"index;not null"`
	ObtainedMarks int     `json:"obtained_marks" gorm:"default:0"`
	TotalMarks    int     `json:"total_marks" gorm:"default:0"`
	Percentage    float64 `json:"percentage" gorm:"default:0"`
	IsPassed      bool    `json:"is_passed" gorm:"default:false"`
	IsLatest      bool    `json:"is_latest" gorm:"default:true"`
	CanRetake     bool    `json:"can_retake" gorm:"default:false"`
	AttemptNumber int     `json:"attempt_number" gorm:"default:1"`
	IsDeleted     bool    `gorm:"default:false"`
}
