package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/fablemud/engine/internal/snapshot"
)

// MemoryStore keeps saves in process memory. It backs tests and demo
// runs without a database. Records are stored in their wire encoding so
// callers never share structure with the store.
type MemoryStore struct {
	mu    sync.Mutex
	saves map[string][]byte
}

var _ SaveStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{saves: make(map[string][]byte)}
}

func (s *MemoryStore) SaveGame(_ context.Context, rec *snapshot.GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode save %q: %w", rec.Name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[rec.Name] = data
	return nil
}

func (s *MemoryStore) LoadGame(_ context.Context, name string) (*snapshot.GameRecord, error) {
	s.mu.Lock()
	data, ok := s.saves[name]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	rec := &snapshot.GameRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("decode save %q: %w", name, err)
	}
	return rec, nil
}

func (s *MemoryStore) ListGames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.saves))
	for name := range s.saves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) DeleteGame(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saves, name)
	return nil
}
