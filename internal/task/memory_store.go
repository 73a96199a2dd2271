package task

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryTaskStore is a TaskStore kept in process memory. It backs tests and
// the runner when no database is configured.
type MemoryTaskStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*Record
	now     func() time.Time
}

var _ TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore creates an empty store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		records: make(map[uuid.UUID]*Record),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryTaskStore) SaveTask(_ context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.records[t.ID()] = &Record{
		ID:        t.ID(),
		Type:      t.Type(),
		Payload:   t.Payload(),
		Status:    TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *MemoryTaskStore) UpdateTaskStatus(_ context.Context, id uuid.UUID, status TaskStatus, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	rec.Status = status
	rec.ErrorMessage = msg
	rec.UpdatedAt = s.now()
	return nil
}

func (s *MemoryTaskStore) GetPendingTasks(_ context.Context) ([]Record, error) {
	return s.byStatus(TaskStatusPending, 0), nil
}

func (s *MemoryTaskStore) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]Record, error) {
	return s.byStatus(TaskStatusProcessing, olderThan), nil
}

// Get returns a copy of the record for id.
func (s *MemoryTaskStore) Get(id uuid.UUID) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Put stores rec as is. Tests use it to simulate a previous run.
func (s *MemoryTaskStore) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := rec
	s.records[rec.ID] = &r
}

func (s *MemoryTaskStore) WithTx(*sql.Tx) TaskStore { return s }

func (s *MemoryTaskStore) byStatus(status TaskStatus, olderThan time.Duration) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-olderThan)
	out := []Record{}
	for _, rec := range s.records {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && !rec.UpdatedAt.Before(cutoff) {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
