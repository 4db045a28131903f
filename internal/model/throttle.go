package model

// ThrottleCounter counts requests of one caller within one calendar day.
type ThrottleCounter struct {
	ID      uint   `gorm:"primaryKey"`
	Scope   string `gorm:"size:32;not null;uniqueIndex:idx_throttle_bucket"`
	Subject string `gorm:"size:255;not null;uniqueIndex:idx_throttle_bucket"`
	Day     Date   `gorm:"not null;uniqueIndex:idx_throttle_bucket"`
	Count   int    `gorm:"not null"`
}
