package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/data/repos"
	"github.com/yungbote/ragdash-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/apierr"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/events"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/objectstore"
	"github.com/yungbote/ragdash-backend/internal/platform/ragserver"
)

type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleteErr error
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; ok {
		return objectstore.ErrObjectExists
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.objects[key]; !ok {
		return objectstore.ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	keys, _ := m.ListKeys(ctx, prefix)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.objects, k)
	}
	return len(keys), nil
}

func (m *memStore) Bucket() string { return "test-bucket" }

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type fakeRAG struct {
	mu sync.Mutex

	processErr error
	processed  []ragserver.ProcessRequest

	status    *ragserver.ProcessStatus
	statusErr error

	chatResp *ragserver.ChatResponse
	chatErr  error
	chats    []ragserver.ChatRequest
}

func (f *fakeRAG) Process(_ context.Context, req ragserver.ProcessRequest) (*ragserver.ProcessStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, req)
	if f.processErr != nil {
		return nil, f.processErr
	}
	return &ragserver.ProcessStatus{SourceID: req.SourceID, Status: "processing"}, nil
}

func (f *fakeRAG) ProcessStatus(context.Context, string) (*ragserver.ProcessStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

func (f *fakeRAG) Chat(_ context.Context, req ragserver.ChatRequest) (*ragserver.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, req)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return f.chatResp, nil
}

func (f *fakeRAG) Health(context.Context) (*ragserver.HealthStatus, error) {
	return &ragserver.HealthStatus{Status: "healthy"}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// failingSourceRepo rejects every insert.
type failingSourceRepo struct {
	repos.SourceRepo
}

var errInsertRejected = errors.New("insert rejected")

func (failingSourceRepo) Create(dbctx.Context, *types.Source) error { return errInsertRejected }

type fixture struct {
	db       *gorm.DB
	log      *logger.Logger
	dbc      dbctx.Context
	store    *memStore
	rag      *fakeRAG
	pub      *recordingPublisher
	services repos.ServiceRepo
	sources  repos.SourceRepo
	chunks   repos.ChunkRepo
	messages repos.ChatMessageRepo
	feedback repos.FeedbackRepo
	styles   repos.WritingStyleRepo
	clock    *testutil.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	return &fixture{
		db:       db,
		log:      log,
		dbc:      dbctx.Context{Ctx: context.Background(), Tx: tx},
		store:    newMemStore(),
		rag:      &fakeRAG{},
		pub:      &recordingPublisher{},
		services: repos.NewServiceRepo(db, log),
		sources:  repos.NewSourceRepo(db, log),
		chunks:   repos.NewChunkRepo(db, log),
		messages: repos.NewChatMessageRepo(db, log),
		feedback: repos.NewFeedbackRepo(db, log),
		styles:   repos.NewWritingStyleRepo(db, log),
		clock:    testutil.NewClock(),
	}
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("want status %d, got nil error", status)
	}
	if got := apierr.StatusOf(err); got != status {
		t.Fatalf("want status %d, got %d (%v)", status, got, err)
	}
}
