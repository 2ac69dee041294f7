package predlog

import (
	"context"
	"sync"

	"TradeOracle/internal/model"
)

// MemoryStore keeps the log in memory. Meant for tests and ad hoc runs;
// it offers the same ordering guarantees as the SQLite store but no
// durability.
type MemoryStore struct {
	mu   sync.Mutex
	recs []model.PredictionRecord
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Append(_ context.Context, rec model.PredictionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

func (m *MemoryStore) LoadAll(context.Context) ([]model.PredictionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PredictionRecord, len(m.recs))
	copy(out, m.recs)
	return out, nil
}

func (m *MemoryStore) IsEmpty(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs) == 0, nil
}

func (m *MemoryStore) Close() error { return nil }
