package model

import "time"

// Profile holds the display data owned by exactly one account. Profiles are
// created in the same transaction as their account and are never created or
// destroyed on their own.
type Profile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AccountID uint      `json:"account_id" gorm:"uniqueIndex;not null"`
	Bio       string    `json:"bio" gorm:"type:text"`
	Image     string    `json:"image" gorm:"size:512"` // Empty means "use the fallback image" at read time
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
