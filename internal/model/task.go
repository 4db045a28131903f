package model

import "time"

// Task represents a single item inside a category.
type Task struct {
	ID         uint     `gorm:"primaryKey"`
	UserID     uint     `gorm:"index;not null"`
	CategoryID uint     `gorm:"index;not null"`
	Category   Category `gorm:"foreignKey:CategoryID"`
	Title      string   `gorm:"size:100;not null"`
	Complete   bool     `gorm:"not null;default:false"`
	DueDate    *Date    `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
