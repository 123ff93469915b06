package store

import (
	"context"
	"sync"

	"github.com/matzehuels/cmdtower/pkg/layout"
)

// MemoryStore keeps layouts in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]*layout.Layout
}

// NewMemoryStore returns an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]*layout.Layout)}
}

func (s *MemoryStore) Save(ctx context.Context, l *layout.Layout) error {
	if err := validateForSave(l); err != nil {
		return err
	}
	cp := *l
	cp.Blocks = append([]layout.Block(nil), l.Blocks...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[l.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*layout.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layouts[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *l
	cp.Blocks = append([]layout.Block(nil), l.Blocks...)
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.layouts))
	for _, l := range s.layouts {
		out = append(out, Summarize(l))
	}
	return newestFirst(out, limit), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layouts, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
