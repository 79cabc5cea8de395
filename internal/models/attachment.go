package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is an uploaded binary (message file, avatar, icon, banner).
// Reported attachments are pinned: routine garbage collection skips any row
// with Reported set, so evidence behind an open report cannot be reclaimed.
type Attachment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MessageID   *uuid.UUID `gorm:"type:uuid;index" json:"message_id,omitempty"`
	UploaderID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"uploader_id"`
	Filename    string     `gorm:"not null;size:255" json:"filename"`
	ContentType string     `gorm:"not null;size:128" json:"content_type"`
	Size        int64      `gorm:"not null" json:"size"`
	Reported    bool       `gorm:"not null;default:false;index" json:"reported"`
	Deleted     bool       `gorm:"not null;default:false" json:"deleted"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
