// Package store handles SQLite persistence of practice history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/keypress/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const dayLayout = "2006-01-02"

// Store wraps SQLite access for attempt data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			level TEXT NOT NULL,
			word TEXT NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('hit', 'miss')),
			typed TEXT NOT NULL,
			typed_at TEXT NOT NULL,
			day TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_typed_at ON attempts(typed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_level_word ON attempts(level, word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores one practice event.
func (s *Store) InsertAttempt(ctx context.Context, a model.Attempt) (int64, error) {
	if a.Kind != model.AttemptHit && a.Kind != model.AttemptMiss {
		return 0, fmt.Errorf("invalid attempt kind %q", a.Kind)
	}
	at := a.At
	if at.IsZero() {
		at = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (run_id, level, word, kind, typed, typed_at, day)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.RunID,
		a.Level,
		a.Word,
		string(a.Kind),
		a.Typed,
		at.UTC().Format(time.RFC3339Nano),
		at.Local().Format(dayLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func filterClauses(level string, since *time.Time) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if level != "" {
		clauses = append(clauses, "level = ?")
		args = append(args, level)
	}
	if since != nil {
		clauses = append(clauses, "typed_at >= ?")
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	return strings.Join(clauses, " AND "), args
}

// ListLevelAggregates summarizes hits, misses and runs per level.
func (s *Store) ListLevelAggregates(ctx context.Context, cfg model.StatsConfig) ([]model.LevelAggregate, error) {
	where, args := filterClauses(cfg.Level, cfg.Since)
	query := fmt.Sprintf(`SELECT level,
			SUM(CASE WHEN kind = 'hit' THEN 1 ELSE 0 END) AS hits,
			SUM(CASE WHEN kind = 'miss' THEN 1 ELSE 0 END) AS misses,
			COUNT(DISTINCT run_id) AS runs
		FROM attempts
		WHERE %s
		GROUP BY level
		ORDER BY level ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LevelAggregate
	for rows.Next() {
		var agg model.LevelAggregate
		if err := rows.Scan(&agg.Level, &agg.Hits, &agg.Misses, &agg.Runs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListHardWords returns the words with the most misses, worst first.
func (s *Store) ListHardWords(ctx context.Context, cfg model.StatsConfig) ([]model.WordAggregate, error) {
	if cfg.Top <= 0 {
		return nil, nil
	}
	where, args := filterClauses(cfg.Level, cfg.Since)
	query := fmt.Sprintf(`SELECT level, word,
			SUM(CASE WHEN kind = 'hit' THEN 1 ELSE 0 END) AS hits,
			SUM(CASE WHEN kind = 'miss' THEN 1 ELSE 0 END) AS misses
		FROM attempts
		WHERE %s
		GROUP BY level, word
		HAVING misses > 0
		ORDER BY misses DESC, hits ASC, word ASC
		LIMIT ?`, where)
	args = append(args, cfg.Top)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Level, &agg.Word, &agg.Hits, &agg.Misses); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListDailyHits counts completed words per local day, oldest first.
func (s *Store) ListDailyHits(ctx context.Context, cfg model.StatsConfig) ([]model.DailyCount, error) {
	where, args := filterClauses(cfg.Level, cfg.Since)
	query := fmt.Sprintf(`SELECT day, COUNT(*) AS hits
		FROM attempts
		WHERE %s AND kind = 'hit'
		GROUP BY day
		ORDER BY day ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.DailyCount
	for rows.Next() {
		var day string
		var dc model.DailyCount
		if err := rows.Scan(&day, &dc.Hits); err != nil {
			return nil, err
		}
		parsed, err := time.ParseInLocation(dayLayout, day, time.Local)
		if err != nil {
			return nil, err
		}
		dc.Day = parsed
		result = append(result, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
