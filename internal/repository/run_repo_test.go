package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
	"tunestatus"

	"github.com/DATA-DOG/go-sqlmock"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestRunAppend_FillsDefaultsAndNormalizesOutcome(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewRunSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO runs (id, started_at, outcome, track, detail, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(),
			"STATUS_SET", "Artist - Song", "published",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(testCtx(t), tunestatus.RunRecord{
		// RunID empty -> generated; StartedAt zero -> now
		Outcome:  "  status_set ",
		Track:    "Artist - Song",
		Detail:   "published",
		Metadata: map[string]any{"ttl": 120},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestRunAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewRunSQLite(db)

	mock.ExpectExec("INSERT INTO runs").WillReturnError(errors.New("down"))

	err := repo.Append(testCtx(t), tunestatus.RunRecord{Outcome: tunestatus.OutcomeNotPlaying})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected db error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestRunList_FiltersAndMetadata(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewRunSQLite(db)

	started := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "started_at", "outcome", "track", "detail", "meta"}).
		AddRow("r1", started, "BLOCKED_FOREIGN", "", "foreign status protected", `{"emoji":":pizza:"}`).
		AddRow("r2", started.Add(-time.Minute), "STATUS_SET", "A - B", "", nil)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, started_at, outcome, track, detail, meta FROM runs WHERE started_at >= ? AND outcome = ? ORDER BY started_at DESC`,
	)).
		WithArgs("2026-05-01 11:00:00", "BLOCKED_FOREIGN").
		WillReturnRows(rows)

	got, err := repo.List(testCtx(t), started.Add(-time.Hour), time.Time{}, "blocked_foreign")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	meta, ok := got[0].Metadata.(map[string]any)
	if !ok || meta["emoji"] != ":pizza:" {
		t.Fatalf("metadata not decoded: %#v", got[0].Metadata)
	}
	if got[1].Metadata != nil {
		t.Fatalf("nil meta should stay nil, got %#v", got[1].Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestRunList_QueryError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewRunSQLite(db)

	mock.ExpectQuery("SELECT id, started_at").WillReturnError(errors.New("locked"))

	if _, err := repo.List(testCtx(t), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected query error")
	}
}
