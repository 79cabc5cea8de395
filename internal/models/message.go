package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Channel is a message stream inside a server.
type Channel struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ServerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"server_id"`
	Name      string         `gorm:"not null;size:100" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Message is a single chat message. Attachments are loaded alongside the
// message wherever the safety workflow needs them.
type Message struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChannelID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_messages_channel_created" json:"channel_id"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Attachments []Attachment   `gorm:"foreignKey:MessageID" json:"attachments,omitempty"`
	CreatedAt   time.Time      `gorm:"index:idx_messages_channel_created" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
