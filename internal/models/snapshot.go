package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SnapshotContent is the point-in-time capture stored with a report. Exactly
// one variant is populated, selected by Type. For messages the surrounding
// conversation is captured too: PriorContext holds up to 15 messages before
// the reported one (most recent first), LeadingContext up to 15 after it
// (oldest first).
type SnapshotContent struct {
	Type           string    `json:"type"`
	Message        *Message  `json:"message,omitempty"`
	PriorContext   []Message `json:"prior_context,omitempty"`
	LeadingContext []Message `json:"leading_context,omitempty"`
	Server         *Server   `json:"server,omitempty"`
	User           *User     `json:"user,omitempty"`
}

// Snapshot preserves reported content against later edits or deletion.
// Write-once: created in the same transaction as its report, never updated.
type Snapshot struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"report_id"`
	Content   datatypes.JSON `gorm:"type:jsonb;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}
