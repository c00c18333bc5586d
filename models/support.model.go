package models

import "gorm.io/gorm"

// SupportTicket is a student helpdesk ticket (technical issues, content
// corrections, account problems).
type SupportTicket struct {
	gorm.Model
	UserID      uint   `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status" gorm:"default:'OPEN'"`      // OPEN, IN_PROGRESS, RESOLVED, CLOSED
	Priority    string `json:"priority" gorm:"default:'MEDIUM'"`  // LOW, MEDIUM, HIGH
	Category    string `json:"category" gorm:"default:'GENERAL'"` // GENERAL, CONTENT, ACCOUNT, EXAM
	IsDeleted   bool   `json:"is_deleted" gorm:"default:false"`
}
