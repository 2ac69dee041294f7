package predlog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"TradeOracle/internal/model"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists the prediction log to a SQLite database. The log is
// one flat table; every query is a full scan, so no further indices are
// needed beyond the timestamp ordering.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so log readers do not block the single writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite prediction log opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			name           TEXT,
			current_price  REAL NOT NULL,
			target_price   REAL NOT NULL,
			confidence     REAL NOT NULL,
			is_new_listing INTEGER NOT NULL DEFAULT -1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Append persists one record as a single INSERT: either the row lands in
// full or the log is unchanged.
func (s *SQLiteStore) Append(ctx context.Context, rec model.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO predictions
		(id, timestamp, symbol, name, current_price, target_price, confidence, is_new_listing)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Timestamp.Unix(), rec.Symbol, rec.Name,
		rec.CurrentPrice, rec.TargetPrice, rec.Confidence, int(rec.IsNewListing),
	)
	if err != nil {
		return fmt.Errorf("insert prediction for %s: %v: %w", rec.Symbol, err, ErrWrite)
	}
	return nil
}

// LoadAll returns every record, oldest first, insertion order on ties.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]model.PredictionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, timestamp, symbol, name,
		current_price, target_price, confidence, is_new_listing
		FROM predictions ORDER BY timestamp, rowid`)
	if err != nil {
		return nil, fmt.Errorf("load predictions: %w", err)
	}
	defer rows.Close()

	var recs []model.PredictionRecord
	for rows.Next() {
		var rec model.PredictionRecord
		var ts int64
		var listing int
		if err := rows.Scan(&rec.ID, &ts, &rec.Symbol, &rec.Name,
			&rec.CurrentPrice, &rec.TargetPrice, &rec.Confidence, &listing); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		rec.IsNewListing = model.Tristate(listing)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return recs, nil
}

func (s *SQLiteStore) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM predictions`).Scan(&n); err != nil {
		return false, fmt.Errorf("count predictions: %w", err)
	}
	return n == 0, nil
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite prediction log")
	return s.db.Close()
}
