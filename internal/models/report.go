package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Reported content kinds.
const (
	ContentTypeMessage = "message"
	ContentTypeServer  = "server"
	ContentTypeUser    = "user"
)

// Report statuses. A report is born as created; every later transition
// belongs to the review tooling, never to the intake workflow.
const (
	ReportStatusCreated = "created"
)

// ReportedContent identifies what a report targets. It is stored verbatim
// on the report row and is immutable once submitted.
type ReportedContent struct {
	Type   string    `json:"type"`
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason,omitempty"`
}

// Report is a user-submitted safety report. The intake workflow inserts it
// once and never touches it again; ownership passes to moderation.
type Report struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Content           datatypes.JSON `gorm:"type:jsonb;not null" json:"content"`
	ContentType       string         `gorm:"not null;size:20;index" json:"content_type"`
	ContentID         string         `gorm:"not null;size:36;index" json:"content_id"`
	AdditionalContext string         `gorm:"size:1000" json:"additional_context,omitempty"`
	Status            string         `gorm:"not null;default:'created';size:50" json:"status"`
	Notes             string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
