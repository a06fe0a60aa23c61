// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/freqprofile/internal/model"
	"github.com/verte-zerg/freqprofile/internal/session"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrNotFound reports that no stored result matches an ID.
	ErrNotFound = errors.New("result not found")
	// ErrAmbiguous reports an ID prefix matching more than one result.
	ErrAmbiguous = errors.New("ambiguous result id")
)

// timeLayout keeps created_at fixed-width so text order is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for scored sessions.
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
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			f_freq INTEGER NOT NULL,
			chrono INTEGER NOT NULL,
			stability INTEGER NOT NULL,
			tone INTEGER NOT NULL,
			breath INTEGER NOT NULL,
			fqi INTEGER NOT NULL,
			percentile INTEGER NOT NULL,
			aura TEXT NOT NULL,
			aura_secondary TEXT NOT NULL,
			session_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_labels (
			result_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			label TEXT NOT NULL,
			count INTEGER NOT NULL,
			like_sum REAL NOT NULL,
			PRIMARY KEY (result_id, kind, label)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_result_labels_label ON result_labels(kind, label);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores a scored session together with its label counts.
func (s *Store) InsertResult(ctx context.Context, rec model.ResultRecord) (err error) {
	if rec.ID == "" {
		return errors.New("insert result: missing id")
	}
	payload, err := session.MarshalJSON(rec.Session)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	sc := rec.Result.Scores
	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (id, created_at, f_freq, chrono, stability, tone, breath, fqi, percentile, aura, aura_secondary, session_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(timeLayout),
		sc.FFreq,
		sc.Chrono,
		sc.Stability,
		sc.Tone,
		sc.Breath,
		sc.FQI,
		sc.Percentile,
		string(rec.Result.Aura.Type),
		string(rec.Result.Aura.Secondary),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	labels := LabelCounts(rec.Session.Fixed)
	if len(labels) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO result_labels (result_id, kind, label, count, like_sum)
			 VALUES (?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, l := range labels {
			if _, err = stmt.ExecContext(ctx, rec.ID, string(l.Kind), l.Label, l.Count, l.LikeSum); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// LabelCounts tallies feeling and body labels over fixed ratings, in first
// seen order.
func LabelCounts(fixed []model.FixedFreqItem) []model.LabelAggregate {
	var out []model.LabelAggregate
	index := map[string]int{}
	add := func(kind model.LabelKind, label string, like float64) {
		key := string(kind) + "\x00" + label
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, model.LabelAggregate{Kind: kind, Label: label})
		}
		out[i].Count++
		out[i].LikeSum += like
	}
	for _, item := range fixed {
		if item.Valence != "" {
			add(model.LabelFeel, string(item.Valence), item.Like)
		}
		for _, locus := range item.Locus {
			add(model.LabelLocus, string(locus), item.Like)
		}
	}
	return out
}

// GetResult loads a stored result by ID or unique ID prefix.
func (s *Store) GetResult(ctx context.Context, id string) (model.ResultRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.ResultRecord{}, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, f_freq, chrono, stability, tone, breath, fqi, percentile, aura, aura_secondary, session_json
		 FROM results
		 WHERE id = ? OR substr(id, 1, length(?)) = ?
		 ORDER BY (id = ?) DESC, created_at DESC
		 LIMIT 2`, id, id, id, id)
	if err != nil {
		return model.ResultRecord{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var recs []model.ResultRecord
	for rows.Next() {
		var rec model.ResultRecord
		var createdAt, payload string
		var aura, secondary string
		sc := &rec.Result.Scores
		if err := rows.Scan(&rec.ID, &createdAt, &sc.FFreq, &sc.Chrono, &sc.Stability, &sc.Tone, &sc.Breath,
			&sc.FQI, &sc.Percentile, &aura, &secondary, &payload); err != nil {
			return model.ResultRecord{}, err
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return model.ResultRecord{}, err
		}
		rec.Result.Aura = model.AuraInfo{Type: model.AuraType(aura), Secondary: model.AuraType(secondary)}
		rec.Session, err = session.UnmarshalJSON([]byte(payload))
		if err != nil {
			return model.ResultRecord{}, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return model.ResultRecord{}, err
	}

	switch {
	case len(recs) == 0:
		return model.ResultRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case recs[0].ID == id || len(recs) == 1:
		return recs[0], nil
	default:
		return model.ResultRecord{}, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// ListResults returns stored results filtered by history config, oldest
// first. Last keeps only the most recent N.
func (s *Store) ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.ResultSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Aura != "" {
		clauses = append(clauses, "aura = ?")
		args = append(args, string(cfg.Aura))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT id, created_at, f_freq, chrono, stability, tone, breath, fqi, percentile, aura, aura_secondary
		FROM (
			SELECT * FROM results
			WHERE %s
			ORDER BY created_at DESC
			LIMIT ?
		)
		ORDER BY created_at ASC`, strings.Join(clauses, " AND "))
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

	var results []model.ResultSummary
	for rows.Next() {
		var r model.ResultSummary
		var createdAt, aura, secondary string
		sc := &r.Scores
		if err := rows.Scan(&r.ID, &createdAt, &sc.FFreq, &sc.Chrono, &sc.Stability, &sc.Tone, &sc.Breath,
			&sc.FQI, &sc.Percentile, &aura, &secondary); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		r.CreatedAt = parsed
		r.Aura = model.AuraInfo{Type: model.AuraType(aura), Secondary: model.AuraType(secondary)}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// AuraCounts counts stored results per archetype, most frequent first.
func (s *Store) AuraCounts(ctx context.Context) ([]model.AuraCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT aura, COUNT(*) AS n FROM results GROUP BY aura ORDER BY n DESC, aura ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var counts []model.AuraCount
	for rows.Next() {
		var c model.AuraCount
		var aura string
		if err := rows.Scan(&aura, &c.Count); err != nil {
			return nil, err
		}
		c.Aura = model.AuraType(aura)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// ListLabelAggregates sums label counts across the given results.
func (s *Store) ListLabelAggregates(ctx context.Context, resultIDs []string, kind model.LabelKind) ([]model.LabelAggregate, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(resultIDs))
	args := make([]any, 0, len(resultIDs)+1)
	args = append(args, string(kind))
	for i, id := range resultIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	query := fmt.Sprintf(`SELECT label, SUM(count) AS count, SUM(like_sum) AS like_sum
		FROM result_labels
		WHERE kind = ? AND result_id IN (%s)
		GROUP BY label
		ORDER BY count DESC, label ASC`, strings.Join(placeholders, ","))
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

	var result []model.LabelAggregate
	for rows.Next() {
		agg := model.LabelAggregate{Kind: kind}
		if err := rows.Scan(&agg.Label, &agg.Count, &agg.LikeSum); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
