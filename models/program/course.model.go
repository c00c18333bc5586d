package program

import "gorm.io/gorm"

// Course represents a standalone short course (single scope, no semesters)
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description"`
	Instructor   string `json:"instructor"`
	Duration     int64  `json:"duration" gorm:"default:0"` // duration in hours
	ThumbnailURL string `json:"thumbnail_url"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}
