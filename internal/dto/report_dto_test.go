package dto

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/ripplehq/ripple-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *CreateReportRequest {
	return &CreateReportRequest{
		Content: models.ReportedContent{
			Type:   models.ContentTypeMessage,
			ID:     uuid.New(),
			Reason: "spam",
		},
	}
}

func TestCreateReportRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{models.ContentTypeMessage, models.ContentTypeServer, models.ContentTypeUser} {
		req := validRequest()
		req.Content.Type = kind
		assert.NoError(t, req.Validate(), kind)
	}
}

func TestCreateReportRequest_Validate_UnknownType(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.Content.Type = "channel"
	require.ErrorIs(t, req.Validate(), ErrUnknownContentType)
}

func TestCreateReportRequest_Validate_MissingID(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.Content.ID = uuid.Nil
	require.ErrorIs(t, req.Validate(), ErrMissingContentID)
}

func TestCreateReportRequest_Validate_ContextLength(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.AdditionalContext = strings.Repeat("a", MaxAdditionalContextLen)
	assert.NoError(t, req.Validate())

	req.AdditionalContext = strings.Repeat("a", MaxAdditionalContextLen+1)
	require.ErrorIs(t, req.Validate(), ErrContextTooLong)
}
