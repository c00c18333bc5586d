package program

import "gorm.io/gorm"

// Program represents a multi-semester long program (e.g. Alim course)
type Program struct {
	gorm.Model
	Title          string `json:"title"`
	Description    string `json:"description"`
	Instructor     string `json:"instructor"`
	TotalSemesters int    `json:"total_semesters" gorm:"default:0"`
	ThumbnailURL   string `json:"thumbnail_url"`
	IsPublished    bool   `json:"is_published" gorm:"default:false"`
	IsDeleted      bool   `gorm:"default:false"`
}

// Semester is one semester of a program. IsCompleted is a staff-controlled
// gate: the next semester stays closed for the whole cohort until staff
// flips it, regardless of individual student progress.
type Semester struct {
	gorm.Model
	ProgramID      uint   `json:"program_id" gorm:"index;not null"`
	SemesterNumber int    `json:"semester_number" gorm:"index;not null"` // 1-based, contiguous
	Title          string `json:"title"`
	Description    string `json:"description"`
	IsCompleted    bool   `json:"is_completed" gorm:"default:false"`
	IsDeleted      bool   `gorm:"default:false"`
}
