package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Server is a community space owned by a single user.
type Server struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string         `gorm:"not null;size:100" json:"name"`
	Description string         `gorm:"size:1000" json:"description,omitempty"`
	IconID      *uuid.UUID     `gorm:"type:uuid" json:"icon_id,omitempty"`
	BannerID    *uuid.UUID     `gorm:"type:uuid" json:"banner_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ServerMember links a user to a server they joined.
type ServerMember struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ServerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_members_server_user" json:"server_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_members_server_user" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
