package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/serroba/videosync-go/internal/interview"
)

// MemoryStore is an in-memory implementation of interview.Repository.
type MemoryStore struct {
	mu         sync.RWMutex
	interviews map[uuid.UUID]*interview.Interview
	comments   map[uuid.UUID][]*interview.Comment // interview id -> comments
}

// NewMemoryStore creates a new in-memory interview store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		interviews: make(map[uuid.UUID]*interview.Interview),
		comments:   make(map[uuid.UUID][]*interview.Comment),
	}
}

func (m *MemoryStore) Save(_ context.Context, iv *interview.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *iv
	c.InterviewerIDs = slices.Clone(iv.InterviewerIDs)
	m.interviews[iv.ID] = &c

	return nil
}

func (m *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*interview.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	iv, ok := m.interviews[id]
	if !ok {
		return nil, interview.ErrNotFound
	}

	c := *iv

	return &c, nil
}

func (m *MemoryStore) List(_ context.Context) ([]*interview.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*interview.Interview, 0, len(m.interviews))
	for _, iv := range m.interviews {
		c := *iv
		out = append(out, &c)
	}

	slices.SortFunc(out, func(a, b *interview.Interview) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return out, nil
}

func (m *MemoryStore) AddComment(_ context.Context, comment *interview.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.interviews[comment.InterviewID]; !ok {
		return interview.ErrNotFound
	}

	c := *comment
	m.comments[comment.InterviewID] = append(m.comments[comment.InterviewID], &c)

	return nil
}

func (m *MemoryStore) ListComments(_ context.Context, interviewID uuid.UUID) ([]*interview.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.interviews[interviewID]; !ok {
		return nil, interview.ErrNotFound
	}

	out := make([]*interview.Comment, 0, len(m.comments[interviewID]))
	for _, c := range m.comments[interviewID] {
		cc := *c
		out = append(out, &cc)
	}

	return out, nil
}

// Compile-time check.
var _ interview.Repository = (*MemoryStore)(nil)
