package service

import (
	"context"
	"time"
	"tunestatus"
	"tunestatus/internal/config"
	"tunestatus/internal/player"
	"tunestatus/internal/repository"
)

// Overview is the live view shown by the admin UI and pushed over the ws.
type Overview struct {
	PlayerRunning bool                   `json:"player_running"`
	PlayerState   tunestatus.PlayerState `json:"player_state"`
	Cache         tunestatus.CacheRecord `json:"cache"`
	LastRun       *tunestatus.RunRecord  `json:"last_run,omitempty"`
}

type StatusService struct {
	cfg    func() config.Config
	player player.Player
	cache  repository.CacheRepo
	runs   repository.RunRepo
}

func NewStatusService(store *config.Store, p player.Player, repos *repository.Repository) *StatusService {
	return &StatusService{cfg: store.Config, player: p, cache: repos.Cache, runs: repos.Runs}
}

// Overview assembles the current player state, the cached record, and the
// most recent run. Cache read errors degrade to a fresh record here just as
// they do in the reconciler.
func (s *StatusService) Overview(ctx context.Context) (Overview, error) {
	o := Overview{
		PlayerRunning: s.player.IsRunning(ctx),
	}
	if o.PlayerRunning {
		o.PlayerState = s.player.State(ctx)
	} else {
		o.PlayerState = tunestatus.StateUnknown
	}

	cache, err := s.cache.Load(ctx)
	if err == nil {
		o.Cache = cache
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	runs, err := s.runs.List(ctx, since, time.Time{}, "")
	if err != nil {
		return o, err
	}
	if len(runs) > 0 {
		// List returns newest first.
		o.LastRun = &runs[0]
	}
	return o, nil
}

// RunHistoryService is the filtered read side of the run history.
type RunHistoryService struct {
	runs repository.RunRepo
}

func NewRunHistoryService(runs repository.RunRepo) *RunHistoryService {
	return &RunHistoryService{runs: runs}
}

func (s *RunHistoryService) List(ctx context.Context, from, to time.Time, outcome string) ([]tunestatus.RunRecord, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	return s.runs.List(ctx, normalizeToUTC(from), normalizeToUTC(to), outcome)
}
