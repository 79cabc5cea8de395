package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ripplehq/ripple-backend/internal/models"
	"gorm.io/gorm"
)

// ErrRecordNotFound is returned by ContentStore fetches when the entity does
// not exist. Kept storage-agnostic so callers never match on driver errors.
var ErrRecordNotFound = errors.New("record not found")

// MessageSort orders a context-window fetch.
type MessageSort string

const (
	SortLatest MessageSort = "latest"
	SortOldest MessageSort = "oldest"
)

// MessageWindow selects neighboring messages in a channel relative to an
// anchor instant. Exactly one of Before/After is set.
type MessageWindow struct {
	ChannelID uuid.UUID
	Before    *time.Time
	After     *time.Time
	Limit     int
	Sort      MessageSort
}

// ContentStore is the persistence capability consumed by the report
// workflow. The GORM implementation below is used in production; tests
// substitute a fake.
type ContentStore interface {
	FetchMessage(ctx context.Context, id uuid.UUID) (*models.Message, error)
	FetchMessages(ctx context.Context, window MessageWindow) ([]models.Message, error)
	FetchServer(ctx context.Context, id uuid.UUID) (*models.Server, error)
	FetchUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	MarkAttachmentReported(ctx context.Context, id uuid.UUID) error
	InsertSnapshot(ctx context.Context, snapshot *models.Snapshot) error
	InsertReport(ctx context.Context, report *models.Report) error

	// Transaction runs fn against a store whose writes commit atomically.
	Transaction(ctx context.Context, fn func(tx ContentStore) error) error
}

// GormContentStore backs ContentStore with Postgres through GORM.
type GormContentStore struct {
	db *gorm.DB
}

func NewContentStore(db *gorm.DB) *GormContentStore {
	return &GormContentStore{db: db}
}

func (s *GormContentStore) FetchMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := s.db.WithContext(ctx).Preload("Attachments").Where("id = ?", id).First(&message).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &message, nil
}

func (s *GormContentStore) FetchMessages(ctx context.Context, window MessageWindow) ([]models.Message, error) {
	query := s.db.WithContext(ctx).Where("channel_id = ?", window.ChannelID)
	if window.Before != nil {
		query = query.Where("created_at < ?", *window.Before)
	}
	if window.After != nil {
		query = query.Where("created_at > ?", *window.After)
	}

	order := "created_at DESC, id DESC"
	if window.Sort == SortOldest {
		order = "created_at ASC, id ASC"
	}

	var messages []models.Message
	err := query.Order(order).Limit(window.Limit).Preload("Attachments").Find(&messages).Error
	return messages, err
}

func (s *GormContentStore) FetchServer(ctx context.Context, id uuid.UUID) (*models.Server, error) {
	var server models.Server
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&server).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &server, nil
}

func (s *GormContentStore) FetchUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (s *GormContentStore) MarkAttachmentReported(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Attachment{}).
		Where("id = ?", id).
		Update("reported", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *GormContentStore) InsertSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	return s.db.WithContext(ctx).Create(snapshot).Error
}

func (s *GormContentStore) InsertReport(ctx context.Context, report *models.Report) error {
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *GormContentStore) Transaction(ctx context.Context, fn func(tx ContentStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormContentStore{db: tx})
	})
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
