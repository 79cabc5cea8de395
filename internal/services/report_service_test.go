package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ripplehq/ripple-backend/internal/dto"
	"github.com/ripplehq/ripple-backend/internal/events"
	"github.com/ripplehq/ripple-backend/internal/identity"
	"github.com/ripplehq/ripple-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ContentStore. Writes inside a Transaction stage
// until fn succeeds, so rollback behavior can be asserted.
type fakeStore struct {
	mu       sync.Mutex
	messages map[uuid.UUID]*models.Message
	servers  map[uuid.UUID]*models.Server
	users    map[uuid.UUID]*models.User
	channel  []models.Message // all channel messages, any order

	markErr           map[uuid.UUID]error
	insertSnapshotErr error
	insertReportErr   error

	fetchCalls int
	markCalls  []uuid.UUID // every attempt, committed or not

	marked    []uuid.UUID
	snapshots []models.Snapshot
	reports   []models.Report
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		messages: make(map[uuid.UUID]*models.Message),
		servers:  make(map[uuid.UUID]*models.Server),
		users:    make(map[uuid.UUID]*models.User),
		markErr:  make(map[uuid.UUID]error),
	}
}

func (f *fakeStore) FetchMessage(_ context.Context, id uuid.UUID) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if m, ok := f.messages[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeStore) FetchMessages(_ context.Context, window MessageWindow) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++

	var out []models.Message
	for _, m := range f.channel {
		if m.ChannelID != window.ChannelID {
			continue
		}
		if window.Before != nil && !m.CreatedAt.Before(*window.Before) {
			continue
		}
		if window.After != nil && !m.CreatedAt.After(*window.After) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if window.Sort == SortLatest {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > window.Limit {
		out = out[:window.Limit]
	}
	return out, nil
}

func (f *fakeStore) FetchServer(_ context.Context, id uuid.UUID) (*models.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if s, ok := f.servers[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeStore) FetchUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrRecordNotFound
}

func (f *fakeStore) MarkAttachmentReported(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls = append(f.markCalls, id)
	if err, ok := f.markErr[id]; ok {
		return err
	}
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeStore) InsertSnapshot(_ context.Context, snapshot *models.Snapshot) error {
	if f.insertSnapshotErr != nil {
		return f.insertSnapshotErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, *snapshot)
	return nil
}

func (f *fakeStore) InsertReport(_ context.Context, report *models.Report) error {
	if f.insertReportErr != nil {
		return f.insertReportErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx ContentStore) error) error {
	f.mu.Lock()
	savedMarked := len(f.marked)
	savedSnapshots := len(f.snapshots)
	savedReports := len(f.reports)
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.marked = f.marked[:savedMarked]
		f.snapshots = f.snapshots[:savedSnapshots]
		f.reports = f.reports[:savedReports]
		f.mu.Unlock()
		return err
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) PublishGlobal(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func newTestService() (*ReportService, *fakeStore, *fakePublisher) {
	store := newFakeStore()
	publisher := &fakePublisher{}
	return NewReportService(store, publisher), store, publisher
}

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// seedChannel fills a channel with n messages, one minute apart, all by
// author. Returns them in chronological order.
func seedChannel(store *fakeStore, channelID, authorID uuid.UUID, n int) []models.Message {
	msgs := make([]models.Message, 0, n)
	for i := 0; i < n; i++ {
		m := models.Message{
			ID:        uuid.New(),
			ChannelID: channelID,
			AuthorID:  authorID,
			Content:   "message",
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}
		msgs = append(msgs, m)
		copied := m
		store.messages[m.ID] = &copied
		store.channel = append(store.channel, m)
	}
	return msgs
}

func messageRequest(id uuid.UUID) *dto.CreateReportRequest {
	return &dto.CreateReportRequest{
		Content: models.ReportedContent{
			Type:   models.ContentTypeMessage,
			ID:     id,
			Reason: "harassment",
		},
	}
}

func TestSubmitReport_MessageEndToEnd(t *testing.T) {
	t.Parallel()

	svc, store, publisher := newTestService()
	reporter := identity.Identity{ID: uuid.New()}
	author := uuid.New()
	channelID := uuid.New()

	// 3 messages before, the reported one, 2 after
	msgs := seedChannel(store, channelID, author, 6)
	reported := msgs[3]

	attachmentID := uuid.New()
	stored := store.messages[reported.ID]
	stored.Attachments = []models.Attachment{{ID: attachmentID, MessageID: &reported.ID}}

	req := messageRequest(reported.ID)
	req.AdditionalContext = "sent right after the argument"

	report, err := svc.SubmitReport(context.Background(), reporter, req)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, reporter.ID, report.AuthorID)
	assert.Equal(t, models.ReportStatusCreated, report.Status)
	assert.Empty(t, report.Notes)
	assert.Equal(t, "sent right after the argument", report.AdditionalContext)

	// Content ref preserved verbatim
	var ref models.ReportedContent
	require.NoError(t, json.Unmarshal(report.Content, &ref))
	assert.Equal(t, req.Content, ref)

	// Exactly one report and one snapshot keyed to it
	require.Len(t, store.reports, 1)
	require.Len(t, store.snapshots, 1)
	assert.Equal(t, report.ID, store.reports[0].ID)
	assert.Equal(t, report.ID, store.snapshots[0].ReportID)

	var content models.SnapshotContent
	require.NoError(t, json.Unmarshal(store.snapshots[0].Content, &content))
	assert.Equal(t, models.ContentTypeMessage, content.Type)
	require.NotNil(t, content.Message)
	assert.Equal(t, reported.ID, content.Message.ID)

	// 3 prior most-recent-first, 2 leading oldest-first
	require.Len(t, content.PriorContext, 3)
	assert.Equal(t, msgs[2].ID, content.PriorContext[0].ID)
	assert.Equal(t, msgs[1].ID, content.PriorContext[1].ID)
	assert.Equal(t, msgs[0].ID, content.PriorContext[2].ID)
	require.Len(t, content.LeadingContext, 2)
	assert.Equal(t, msgs[4].ID, content.LeadingContext[0].ID)
	assert.Equal(t, msgs[5].ID, content.LeadingContext[1].ID)

	// Attachment pinned, one global event carrying the report
	assert.Equal(t, []uuid.UUID{attachmentID}, store.marked)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.TypeReportCreated, publisher.events[0].Type)
	published, ok := publisher.events[0].Data.(*models.Report)
	require.True(t, ok)
	assert.Equal(t, report.ID, published.ID)
}

func TestSubmitReport_ContextWindowCap(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	reporter := identity.Identity{ID: uuid.New()}
	channelID := uuid.New()

	msgs := seedChannel(store, channelID, uuid.New(), 40)
	reported := msgs[20]

	_, err := svc.SubmitReport(context.Background(), reporter, messageRequest(reported.ID))
	require.NoError(t, err)

	var content models.SnapshotContent
	require.NoError(t, json.Unmarshal(store.snapshots[0].Content, &content))

	require.Len(t, content.PriorContext, 15)
	require.Len(t, content.LeadingContext, 15)
	// Windows hug the reported message on both sides
	assert.Equal(t, msgs[19].ID, content.PriorContext[0].ID)
	assert.Equal(t, msgs[5].ID, content.PriorContext[14].ID)
	assert.Equal(t, msgs[21].ID, content.LeadingContext[0].ID)
	assert.Equal(t, msgs[35].ID, content.LeadingContext[14].ID)
}

func TestSubmitReport_ShortContextWindows(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	reporter := identity.Identity{ID: uuid.New()}
	channelID := uuid.New()

	// Lone message in the channel: both windows empty, still a success
	msgs := seedChannel(store, channelID, uuid.New(), 1)

	_, err := svc.SubmitReport(context.Background(), reporter, messageRequest(msgs[0].ID))
	require.NoError(t, err)

	var content models.SnapshotContent
	require.NoError(t, json.Unmarshal(store.snapshots[0].Content, &content))
	assert.Empty(t, content.PriorContext)
	assert.Empty(t, content.LeadingContext)
}

func TestSubmitReport_SelfReportGuards(t *testing.T) {
	t.Parallel()

	reporterID := uuid.New()

	tests := []struct {
		name string
		seed func(store *fakeStore) models.ReportedContent
	}{
		{
			name: "own message",
			seed: func(store *fakeStore) models.ReportedContent {
				msgs := seedChannel(store, uuid.New(), reporterID, 1)
				return models.ReportedContent{Type: models.ContentTypeMessage, ID: msgs[0].ID}
			},
		},
		{
			name: "own server",
			seed: func(store *fakeStore) models.ReportedContent {
				id := uuid.New()
				store.servers[id] = &models.Server{ID: id, OwnerID: reporterID}
				return models.ReportedContent{Type: models.ContentTypeServer, ID: id}
			},
		},
		{
			name: "own profile",
			seed: func(store *fakeStore) models.ReportedContent {
				store.users[reporterID] = &models.User{ID: reporterID}
				return models.ReportedContent{Type: models.ContentTypeUser, ID: reporterID}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, publisher := newTestService()
			content := tt.seed(store)

			report, err := svc.SubmitReport(context.Background(), identity.Identity{ID: reporterID},
				&dto.CreateReportRequest{Content: content})

			require.ErrorIs(t, err, ErrCannotReportSelf)
			assert.Nil(t, report)
			assert.Empty(t, store.reports)
			assert.Empty(t, store.snapshots)
			assert.Empty(t, publisher.events)
		})
	}
}

func TestSubmitReport_BotReporter(t *testing.T) {
	t.Parallel()

	svc, store, publisher := newTestService()
	msgs := seedChannel(store, uuid.New(), uuid.New(), 1)

	report, err := svc.SubmitReport(context.Background(),
		identity.Identity{ID: uuid.New(), Bot: true}, messageRequest(msgs[0].ID))

	require.ErrorIs(t, err, ErrBotsCannotReport)
	assert.Nil(t, report)
	assert.Empty(t, store.reports)
	assert.Empty(t, store.snapshots)
	assert.Empty(t, publisher.events)
}

func TestSubmitReport_AdditionalContextTooLong(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	msgs := seedChannel(store, uuid.New(), uuid.New(), 1)

	req := messageRequest(msgs[0].ID)
	req.AdditionalContext = string(make([]byte, 1001))

	_, err := svc.SubmitReport(context.Background(), identity.Identity{ID: uuid.New()}, req)

	require.ErrorIs(t, err, dto.ErrContextTooLong)
	// Shape validation short-circuits before any resolution or persistence
	assert.Zero(t, store.fetchCalls)
	assert.Empty(t, store.markCalls)
	assert.Empty(t, store.reports)
}

func TestSubmitReport_UnknownContentType(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()

	_, err := svc.SubmitReport(context.Background(), identity.Identity{ID: uuid.New()},
		&dto.CreateReportRequest{Content: models.ReportedContent{Type: "channel", ID: uuid.New()}})

	require.ErrorIs(t, err, dto.ErrUnknownContentType)
}

func TestSubmitReport_ContentNotFound(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()

	_, err := svc.SubmitReport(context.Background(), identity.Identity{ID: uuid.New()},
		messageRequest(uuid.New()))

	require.ErrorIs(t, err, ErrContentNotFound)
	assert.Empty(t, store.reports)
}

func TestSubmitReport_ServerBannerOnly(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	reporter := identity.Identity{ID: uuid.New()}

	bannerID := uuid.New()
	serverID := uuid.New()
	store.servers[serverID] = &models.Server{ID: serverID, OwnerID: uuid.New(), BannerID: &bannerID}

	_, err := svc.SubmitReport(context.Background(), reporter,
		&dto.CreateReportRequest{Content: models.ReportedContent{Type: models.ContentTypeServer, ID: serverID}})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bannerID}, store.marked)

	var content models.SnapshotContent
	require.NoError(t, json.Unmarshal(store.snapshots[0].Content, &content))
	assert.Equal(t, models.ContentTypeServer, content.Type)
	require.NotNil(t, content.Server)
	assert.Equal(t, serverID, content.Server.ID)
}

func TestSubmitReport_UserWithoutAttachments(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	reporter := identity.Identity{ID: uuid.New()}

	userID := uuid.New()
	store.users[userID] = &models.User{ID: userID, Username: "target"}

	_, err := svc.SubmitReport(context.Background(), reporter,
		&dto.CreateReportRequest{Content: models.ReportedContent{Type: models.ContentTypeUser, ID: userID}})

	require.NoError(t, err)
	assert.Empty(t, store.markCalls)
	require.Len(t, store.reports, 1)
	require.Len(t, store.snapshots, 1)
}

func TestSubmitReport_AttachmentMarkingFailureRollsBack(t *testing.T) {
	t.Parallel()

	svc, store, publisher := newTestService()
	reporter := identity.Identity{ID: uuid.New()}

	msgs := seedChannel(store, uuid.New(), uuid.New(), 1)
	first, second := uuid.New(), uuid.New()
	msgID := msgs[0].ID
	store.messages[msgID].Attachments = []models.Attachment{
		{ID: first, MessageID: &msgID},
		{ID: second, MessageID: &msgID},
	}
	store.markErr[second] = ErrRecordNotFound

	report, err := svc.SubmitReport(context.Background(), reporter, messageRequest(msgID))

	require.ErrorIs(t, err, ErrAttachmentMarking)
	assert.Nil(t, report)
	// All-or-nothing: even the first, successful mark is rolled back
	assert.Empty(t, store.marked)
	assert.Empty(t, store.snapshots)
	assert.Empty(t, store.reports)
	assert.Empty(t, publisher.events)
}

func TestSubmitReport_ReportInsertFailureRollsBack(t *testing.T) {
	t.Parallel()

	svc, store, publisher := newTestService()
	reporter := identity.Identity{ID: uuid.New()}

	msgs := seedChannel(store, uuid.New(), uuid.New(), 1)
	store.insertReportErr = assert.AnError

	report, err := svc.SubmitReport(context.Background(), reporter, messageRequest(msgs[0].ID))

	require.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, report)
	assert.Empty(t, store.snapshots)
	assert.Empty(t, store.reports)
	assert.Empty(t, publisher.events)
}

func TestSubmitReport_TwoReportsSameContent(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestService()
	msgs := seedChannel(store, uuid.New(), uuid.New(), 1)

	first, err := svc.SubmitReport(context.Background(), identity.Identity{ID: uuid.New()}, messageRequest(msgs[0].ID))
	require.NoError(t, err)
	second, err := svc.SubmitReport(context.Background(), identity.Identity{ID: uuid.New()}, messageRequest(msgs[0].ID))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.reports, 2)
	assert.Len(t, store.snapshots, 2)
}
