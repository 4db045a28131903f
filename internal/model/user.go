package model

import "time"

// User is the account that owns categories and tasks.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:100;uniqueIndex;not null"`
	FirstName string `gorm:"size:150"`
	LastName  string `gorm:"size:150"`
	Email     string `gorm:"size:254"`
	Password  string `gorm:"size:255;not null"` // bcrypt hash
	IsActive  bool   `gorm:"not null"`
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
