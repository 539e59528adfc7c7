package model

import "time"

// Account represents an authenticated account in the system. The active
// flag carries soft-delete semantics: a deactivated account keeps its row
// and its profile but is hidden from profile lookups.
type Account struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Active       bool      `json:"active" gorm:"default:true;index"`
	IsStaff      bool      `json:"is_staff" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Profile Profile `json:"profile,omitempty" gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}
