package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ripplehq/ripple-backend/internal/dto"
	"github.com/ripplehq/ripple-backend/internal/events"
	"github.com/ripplehq/ripple-backend/internal/identity"
	"github.com/ripplehq/ripple-backend/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

var (
	ErrBotsCannotReport  = errors.New("bot accounts cannot create reports")
	ErrCannotReportSelf  = errors.New("cannot report your own content")
	ErrContentNotFound   = errors.New("reported content not found")
	ErrAttachmentMarking = errors.New("failed to mark attachment for retention")
	ErrPersistence       = errors.New("failed to persist report")
)

// contextWindowSize bounds each side of a message snapshot's context window.
const contextWindowSize = 15

// ReportService implements report intake: it resolves the reported content,
// captures an immutable snapshot of it, pins referenced attachments, and
// persists the report before announcing it to moderation.
type ReportService struct {
	store     ContentStore
	publisher events.Publisher
}

func NewReportService(store ContentStore, publisher events.Publisher) *ReportService {
	return &ReportService{store: store, publisher: publisher}
}

// resolvedContent is the loaded entity behind a reported-content reference.
type resolvedContent struct {
	kind    string
	message *models.Message
	server  *models.Server
	user    *models.User
}

// SubmitReport runs the full intake workflow for one report. Attachment
// marking, snapshot insert, and report insert commit in a single transaction,
// so a visible report always has recoverable evidence and a failure leaves
// nothing behind.
func (s *ReportService) SubmitReport(ctx context.Context, reporter identity.Identity, req *dto.CreateReportRequest) (*models.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resolved, attachmentIDs, err := s.resolve(ctx, req.Content, reporter)
	if err != nil {
		return nil, err
	}

	content, err := s.buildSnapshotContent(ctx, resolved)
	if err != nil {
		return nil, err
	}

	contentRef, err := json.Marshal(req.Content)
	if err != nil {
		return nil, fmt.Errorf("marshal content ref: %w", err)
	}
	snapshotBody, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	report := &models.Report{
		ID:                uuid.New(),
		AuthorID:          reporter.ID,
		Content:           datatypes.JSON(contentRef),
		ContentType:       req.Content.Type,
		ContentID:         req.Content.ID.String(),
		AdditionalContext: req.AdditionalContext,
		Status:            models.ReportStatusCreated,
	}
	snapshot := &models.Snapshot{
		ID:       uuid.New(),
		ReportID: report.ID,
		Content:  datatypes.JSON(snapshotBody),
	}

	err = s.store.Transaction(ctx, func(tx ContentStore) error {
		// A report whose evidence could still be garbage-collected is unsafe
		// to finalize, so any marking failure aborts the whole submission.
		for _, attachmentID := range attachmentIDs {
			if err := tx.MarkAttachmentReported(ctx, attachmentID); err != nil {
				return fmt.Errorf("%w: attachment %s: %v", ErrAttachmentMarking, attachmentID, err)
			}
		}
		if err := tx.InsertSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("%w: snapshot: %v", ErrPersistence, err)
		}
		if err := tx.InsertReport(ctx, report); err != nil {
			return fmt.Errorf("%w: report: %v", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAttachmentMarking) || errors.Is(err, ErrPersistence) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// The report is durable at this point; publication is fire-and-forget.
	s.publisher.PublishGlobal(events.Event{Type: events.TypeReportCreated, Data: report})

	slog.Info("report created",
		"report_id", report.ID,
		"content_type", report.ContentType,
		"content_id", report.ContentID,
		"author_id", reporter.ID,
		"attachments", len(attachmentIDs))

	return report, nil
}

// resolve loads the referenced entity, enforces reporter eligibility, and
// enumerates the attachment ids that need retention marking. Pure read.
func (s *ReportService) resolve(ctx context.Context, content models.ReportedContent, reporter identity.Identity) (*resolvedContent, []uuid.UUID, error) {
	if reporter.Bot {
		return nil, nil, ErrBotsCannotReport
	}

	switch content.Type {
	case models.ContentTypeMessage:
		message, err := s.store.FetchMessage(ctx, content.ID)
		if err != nil {
			return nil, nil, fetchFailure("message", err)
		}
		if message.AuthorID == reporter.ID {
			return nil, nil, ErrCannotReportSelf
		}
		attachmentIDs := make([]uuid.UUID, 0, len(message.Attachments))
		for _, attachment := range message.Attachments {
			attachmentIDs = append(attachmentIDs, attachment.ID)
		}
		return &resolvedContent{kind: models.ContentTypeMessage, message: message}, attachmentIDs, nil

	case models.ContentTypeServer:
		server, err := s.store.FetchServer(ctx, content.ID)
		if err != nil {
			return nil, nil, fetchFailure("server", err)
		}
		if server.OwnerID == reporter.ID {
			return nil, nil, ErrCannotReportSelf
		}
		return &resolvedContent{kind: models.ContentTypeServer, server: server},
			presentIDs(server.IconID, server.BannerID), nil

	case models.ContentTypeUser:
		user, err := s.store.FetchUser(ctx, content.ID)
		if err != nil {
			return nil, nil, fetchFailure("user", err)
		}
		if user.ID == reporter.ID {
			return nil, nil, ErrCannotReportSelf
		}
		return &resolvedContent{kind: models.ContentTypeUser, user: user},
			presentIDs(user.AvatarID, user.ProfileBackgroundID), nil

	default:
		return nil, nil, dto.ErrUnknownContentType
	}
}

// buildSnapshotContent assembles the point-in-time capture for a resolved
// entity. For messages the two context windows are independent reads and are
// fetched concurrently; a short or empty window near a channel boundary is
// success, not an error.
func (s *ReportService) buildSnapshotContent(ctx context.Context, resolved *resolvedContent) (*models.SnapshotContent, error) {
	switch resolved.kind {
	case models.ContentTypeMessage:
		message := resolved.message
		var prior, leading []models.Message

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			prior, err = s.store.FetchMessages(gctx, MessageWindow{
				ChannelID: message.ChannelID,
				Before:    &message.CreatedAt,
				Limit:     contextWindowSize,
				Sort:      SortLatest,
			})
			return err
		})
		g.Go(func() error {
			var err error
			leading, err = s.store.FetchMessages(gctx, MessageWindow{
				ChannelID: message.ChannelID,
				After:     &message.CreatedAt,
				Limit:     contextWindowSize,
				Sort:      SortOldest,
			})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("fetch message context: %w", err)
		}

		return &models.SnapshotContent{
			Type:           models.ContentTypeMessage,
			Message:        message,
			PriorContext:   prior,
			LeadingContext: leading,
		}, nil

	case models.ContentTypeServer:
		return &models.SnapshotContent{Type: models.ContentTypeServer, Server: resolved.server}, nil

	default:
		return &models.SnapshotContent{Type: models.ContentTypeUser, User: resolved.user}, nil
	}
}

func fetchFailure(entity string, err error) error {
	if errors.Is(err, ErrRecordNotFound) {
		return ErrContentNotFound
	}
	return fmt.Errorf("fetch %s: %w", entity, err)
}

func presentIDs(ids ...*uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}
