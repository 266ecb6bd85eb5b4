package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"
	"tunestatus"

	"github.com/google/uuid"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Append inserts a run record. Missing RunID or StartedAt are filled in.
func (r *RunSQLite) Append(ctx context.Context, rec tunestatus.RunRecord) error {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	} else {
		rec.StartedAt = rec.StartedAt.UTC()
	}

	var metaPtr *string
	if rec.Metadata != nil {
		if b, err := json.Marshal(rec.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, outcome, track, detail, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		rec.RunID,
		rec.StartedAt.Format(sqliteTimeLayout),
		strings.ToUpper(strings.TrimSpace(rec.Outcome)),
		rec.Track,
		rec.Detail,
		metaPtr,
	)
	return err
}

// List returns runs filtered by [from, to] (inclusive) and/or outcome,
// newest first.
func (r *RunSQLite) List(ctx context.Context, from, to time.Time, outcome string) ([]tunestatus.RunRecord, error) {
	var (
		conds []string
		args  []any
	)

	// Bind range bounds in the same format Append stores, so the
	// comparison is consistent.
	if !from.IsZero() {
		conds = append(conds, "started_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "started_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if outcome = strings.ToUpper(strings.TrimSpace(outcome)); outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, outcome)
	}

	q := `SELECT id, started_at, outcome, track, detail, meta FROM runs`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY started_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tunestatus.RunRecord, 0, 64)
	for rows.Next() {
		var rec tunestatus.RunRecord
		var metaStr sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.StartedAt, &rec.Outcome, &rec.Track, &rec.Detail, &metaStr); err != nil {
			return nil, err
		}
		rec.StartedAt = rec.StartedAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				rec.Metadata = v
			} else {
				rec.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
