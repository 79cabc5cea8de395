package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a platform account. Bot accounts are first-class users with the
// Bot flag set; the flag also travels in issued JWTs so safety guards do
// not need an extra lookup.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username            string         `gorm:"not null;size:32;uniqueIndex" json:"username"`
	Email               string         `gorm:"not null;size:255;uniqueIndex" json:"-"`
	Password            string         `gorm:"not null" json:"-"`
	Bot                 bool           `gorm:"not null;default:false" json:"bot"`
	AvatarID            *uuid.UUID     `gorm:"type:uuid" json:"avatar_id,omitempty"`
	ProfileBackgroundID *uuid.UUID     `gorm:"type:uuid" json:"profile_background_id,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}
