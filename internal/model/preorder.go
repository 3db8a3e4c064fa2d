package model

import (
	"time"
)

// Preorder represents a single email signup collected ahead of launch.
type Preorder struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email      string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	SignupDate time.Time `json:"signup_date" gorm:"not null;index"`
	Notified   bool      `json:"notified" gorm:"not null;default:false"`
}

// TableName specifies the table name for Preorder
func (Preorder) TableName() string {
	return "preorders"
}
