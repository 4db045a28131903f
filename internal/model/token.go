package model

import "time"

// OutstandingToken records every refresh token handed out to a user.
type OutstandingToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	JTI       string    `gorm:"column:jti;size:64;uniqueIndex;not null"`
	Token     string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index;not null"`
}

// BlacklistedToken marks an outstanding refresh token as revoked.
type BlacklistedToken struct {
	ID            uint             `gorm:"primaryKey"`
	TokenID       uint             `gorm:"uniqueIndex;not null"`
	Token         OutstandingToken `gorm:"foreignKey:TokenID"`
	BlacklistedAt time.Time        `gorm:"autoCreateTime"`
}
