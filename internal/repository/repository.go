package repository

import (
	"context"
	"database/sql"
	"time"
	"tunestatus"
)

// CacheRepo persists the single reconcile cache record between runs.
type CacheRepo interface {
	Load(ctx context.Context) (tunestatus.CacheRecord, error)
	Save(ctx context.Context, rec tunestatus.CacheRecord) error
}

// RunRepo is the append-only reconcile run history with filtered access.
type RunRepo interface {
	Append(ctx context.Context, r tunestatus.RunRecord) error
	List(ctx context.Context, from, to time.Time, outcome string) ([]tunestatus.RunRecord, error)
}

type Repository struct {
	Cache CacheRepo
	Runs  RunRepo
}

func NewRepository(db *sql.DB, cachePath string) *Repository {
	return &Repository{
		Cache: NewCacheFile(cachePath),
		Runs:  NewRunSQLite(db),
	}
}
