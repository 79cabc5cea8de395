package dto

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ripplehq/ripple-backend/internal/models"
)

// MaxAdditionalContextLen bounds the free-text description on a report.
const MaxAdditionalContextLen = 1000

var (
	ErrUnknownContentType = errors.New("content type must be message, server, or user")
	ErrMissingContentID   = errors.New("content id is required")
	ErrContextTooLong     = errors.New("additional_context must be at most 1000 characters")
)

type CreateReportRequest struct {
	Content           models.ReportedContent `json:"content"`
	AdditionalContext string                 `json:"additional_context"`
}

// Validate checks payload shape only; content existence and eligibility are
// the report service's concern.
func (r *CreateReportRequest) Validate() error {
	switch r.Content.Type {
	case models.ContentTypeMessage, models.ContentTypeServer, models.ContentTypeUser:
	default:
		return ErrUnknownContentType
	}
	if r.Content.ID == uuid.Nil {
		return ErrMissingContentID
	}
	if len(r.AdditionalContext) > MaxAdditionalContextLen {
		return ErrContextTooLong
	}
	return nil
}
