package task

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/generation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memTaskStore keeps records in memory.
type memTaskStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*Record
	SaveFn  func(ctx context.Context, task Task) error
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{records: make(map[uuid.UUID]*Record)}
}

func (s *memTaskStore) SaveTask(ctx context.Context, task Task) error {
	if s.SaveFn != nil {
		if err := s.SaveFn(ctx, task); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.records[task.ID()] = &Record{
		ID: task.ID(), Type: task.Type(), Payload: task.Payload(),
		Status: task.Status(), CreatedAt: now, UpdatedAt: now,
	}
	return nil
}

func (s *memTaskStore) put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = &rec
}

func (s *memTaskStore) UpdateTaskStatus(_ context.Context, id uuid.UUID, status TaskStatus, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Status = status
		rec.ErrorMessage = msg
		rec.UpdatedAt = time.Now()
	}
	return nil
}

func (s *memTaskStore) byStatus(status TaskStatus, olderThan time.Duration) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && time.Since(rec.UpdatedAt) < olderThan {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

func (s *memTaskStore) GetPendingTasks(context.Context) ([]Record, error) {
	return s.byStatus(TaskStatusPending, 0), nil
}

func (s *memTaskStore) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]Record, error) {
	return s.byStatus(TaskStatusProcessing, olderThan), nil
}

func (s *memTaskStore) WithTx(*sql.Tx) TaskStore { return s }

func (s *memTaskStore) status(id uuid.UUID) (TaskStatus, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return "", ""
	}
	return rec.Status, rec.ErrorMessage
}

// fakeTask runs ExecuteFn.
type fakeTask struct {
	id        uuid.UUID
	ExecuteFn func(ctx context.Context) error
}

func newFakeTask(fn func(ctx context.Context) error) *fakeTask {
	return &fakeTask{id: uuid.New(), ExecuteFn: fn}
}

func (t *fakeTask) ID() uuid.UUID      { return t.id }
func (t *fakeTask) Type() string       { return "fake" }
func (t *fakeTask) Payload() []byte    { return []byte("{}") }
func (t *fakeTask) Status() TaskStatus { return TaskStatusPending }
func (t *fakeTask) Execute(ctx context.Context) error {
	if t.ExecuteFn == nil {
		return nil
	}
	return t.ExecuteFn(ctx)
}

type fakeCards struct {
	GetFn        func(ctx context.Context, deckID, id int) (*domain.Card, error)
	SetExampleFn func(ctx context.Context, id int, text string) (bool, error)
}

func (f *fakeCards) Get(ctx context.Context, deckID, id int) (*domain.Card, error) {
	return f.GetFn(ctx, deckID, id)
}

func (f *fakeCards) SetExample(ctx context.Context, id int, text string) (bool, error) {
	return f.SetExampleFn(ctx, id, text)
}

type fakeDecks struct {
	GetFn func(ctx context.Context, id, userID int) (*domain.Deck, error)
}

func (f *fakeDecks) Get(ctx context.Context, id, userID int) (*domain.Deck, error) {
	return f.GetFn(ctx, id, userID)
}

type fakeGenerator struct {
	GenerateExampleFn func(ctx context.Context, req generation.ExampleRequest) (string, error)
}

func (f *fakeGenerator) GenerateExample(ctx context.Context, req generation.ExampleRequest) (string, error) {
	return f.GenerateExampleFn(ctx, req)
}
