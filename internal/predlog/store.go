package predlog

import (
	"context"
	"errors"

	"TradeOracle/internal/model"
)

// ErrWrite marks an append that could not be persisted. The prediction that
// triggered it may still be shown to the user, flagged as not recorded.
var ErrWrite = errors.New("prediction log write failed")

// Store is the append-only prediction log. Records are immutable once
// appended; LoadAll returns them in timestamp order, insertion order
// breaking ties. Single-writer usage is assumed.
type Store interface {
	Append(ctx context.Context, rec model.PredictionRecord) error
	LoadAll(ctx context.Context) ([]model.PredictionRecord, error)
	IsEmpty(ctx context.Context) (bool, error)
	Close() error
}

// NoopStore discards appends. Used when no database path is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Append(context.Context, model.PredictionRecord) error { return nil }
func (n *NoopStore) LoadAll(context.Context) ([]model.PredictionRecord, error) {
	return nil, nil
}
func (n *NoopStore) IsEmpty(context.Context) (bool, error) { return true, nil }
func (n *NoopStore) Close() error                          { return nil }
