package service

import (
	"context"
	"errors"
	"time"
	"tunestatus"
	"tunestatus/internal/config"
	"tunestatus/internal/logger"
	"tunestatus/internal/player"
	"tunestatus/internal/repository"
	"tunestatus/internal/slack"

	"github.com/google/uuid"
)

// Remote-read retry policy: transport/parse failures only, linear backoff.
const (
	readAttempts    = 3
	readBackoffStep = 250 * time.Millisecond
)

// ReconcilerService implements the per-run decision pipeline. One invocation
// reads remote state once, classifies it, merges it into the cache, and
// issues at most one status-set call.
type ReconcilerService struct {
	cfg       func() config.Config
	player    player.Player
	api       StatusAPI
	cache     repository.CacheRepo
	runs      repository.RunRepo
	filter    TextFilter
	log       *logger.Logger
	broadcast func(tunestatus.RunRecord)

	// test seams
	now   func() time.Time
	sleep func(time.Duration)
}

func NewReconcilerService(d Deps) *ReconcilerService {
	return &ReconcilerService{
		cfg:       d.Config.Config,
		player:    d.Player,
		api:       d.API,
		cache:     d.Repos.Cache,
		runs:      d.Repos.Runs,
		filter:    d.Filter,
		log:       d.Log,
		broadcast: d.Broadcast,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// RunOnce executes one reconcile pass. Gates in order: player running →
// remote read → classify + cache checkpoint → playing → override safety →
// set → cache checkpoint. Every exit produces a RunRecord; remote failures
// are never fatal to the process.
func (r *ReconcilerService) RunOnce(ctx context.Context) tunestatus.RunRecord {
	cfg := r.cfg()
	rec := tunestatus.RunRecord{
		RunID:     uuid.NewString(),
		StartedAt: r.now().UTC(),
	}

	// Gate 1: player process. Not running means nothing to report; no
	// remote call, no cache mutation.
	if !r.player.IsRunning(ctx) {
		rec.Outcome = tunestatus.OutcomePlayerNotRunning
		return r.finish(ctx, rec)
	}

	// Gate 2: one remote read, retried on transport faults only. An
	// explicit api failure terminates immediately: never guess on a remote
	// state we cannot verify.
	snap, err := r.readStatus(ctx)
	if err != nil {
		var apiErr *slack.APIError
		if errors.As(err, &apiErr) {
			rec.Outcome = tunestatus.OutcomeRemoteError
			rec.Detail = apiErr.Code
		} else {
			rec.Outcome = tunestatus.OutcomeReadFailed
			rec.Detail = err.Error()
		}
		r.log.Errorw("remote_read_failed", "outcome", rec.Outcome, "err", err)
		return r.finish(ctx, rec)
	}

	// Gate 3: classify.
	owned := IsOwnedByScript(snap.Text, snap.Emoji, cfg.Status)
	empty := IsEmpty(snap.Text, snap.Emoji)
	safe := IsSafeToOverrideWhenPlaying(snap.Text, snap.Emoji) || owned

	// Cache checkpoint: capture a foreign fully-populated status and the
	// empty-read streak, then persist before any later gate can exit.
	cache, err := r.cache.Load(ctx)
	if err != nil {
		// Corrupt or unreadable cache is recovered as fresh.
		r.log.Warnw("cache_load_failed", "err", err)
		cache = tunestatus.CacheRecord{}
	}
	nowUnix := r.now().Unix()
	r.mergeObservation(&cache, snap, owned, empty, nowUnix, cfg.Status)
	if err := r.cache.Save(ctx, cache); err != nil {
		r.log.Errorw("cache_save_failed", "err", err)
	}

	// Gate 4: only an actively playing player publishes. Paused/stopped/
	// unknown statuses simply age out through the TTL.
	if state := r.player.State(ctx); state != tunestatus.StatePlaying {
		rec.Outcome = tunestatus.OutcomeNotPlaying
		rec.Detail = string(state)
		return r.finish(ctx, rec)
	}

	// Gate 5: override safety.
	if !r.overrideAllowed(cfg.Status, cache, owned, empty, safe, nowUnix) {
		rec.Outcome = tunestatus.OutcomeBlockedForeign
		rec.Metadata = map[string]any{"remote_text": snap.Text, "remote_emoji": snap.Emoji}
		return r.finish(ctx, rec)
	}

	// Fetch and publish.
	track, err := r.player.CurrentTrack(ctx)
	if err != nil || Normalize(track) == "" {
		// Track query failure recovers to the safe no-op path.
		rec.Outcome = tunestatus.OutcomeNotPlaying
		rec.Detail = "track label unavailable"
		if err != nil {
			r.log.Warnw("track_query_failed", "err", err)
		}
		return r.finish(ctx, rec)
	}
	text := r.filter.Filter(track)
	expiration := r.now().Unix() + cfg.Status.TTLSeconds

	if err := r.api.SetStatus(ctx, text, cfg.Status.Emoji, expiration); err != nil {
		// No retry: a second attempt could publish a stale track name.
		// lastSetByScript stays untouched.
		rec.Outcome = tunestatus.OutcomeSetFailed
		rec.Track = text
		rec.Detail = err.Error()
		r.log.Errorw("remote_set_failed", "track", text, "err", err)
		return r.finish(ctx, rec)
	}

	cache.LastSetByScript = &tunestatus.ScriptStatus{
		Text:       text,
		Emoji:      cfg.Status.Emoji,
		Expiration: expiration,
		SetAt:      r.now().Unix(),
	}
	if err := r.cache.Save(ctx, cache); err != nil {
		r.log.Errorw("cache_save_failed", "err", err)
	}

	rec.Outcome = tunestatus.OutcomeStatusSet
	rec.Track = text
	rec.Metadata = map[string]any{"expiration": expiration, "ttl_seconds": cfg.Status.TTLSeconds}
	r.log.Infow("status_set", "track", text, "expiration", expiration)
	return r.finish(ctx, rec)
}

// readStatus performs the bounded remote read. Transport/parse failures are
// retried with linearly increasing backoff; an api-level failure is returned
// immediately.
func (r *ReconcilerService) readStatus(ctx context.Context) (tunestatus.StatusSnapshot, error) {
	var lastErr error
	for attempt := 1; attempt <= readAttempts; attempt++ {
		snap, err := r.api.GetStatus(ctx)
		if err == nil {
			return snap, nil
		}
		var apiErr *slack.APIError
		if errors.As(err, &apiErr) {
			return tunestatus.StatusSnapshot{}, err
		}
		lastErr = err
		if attempt < readAttempts {
			r.log.Debugw("remote_read_retry", "attempt", attempt, "err", err)
			r.sleep(readBackoffStep * time.Duration(attempt))
		}
	}
	return tunestatus.StatusSnapshot{}, lastErr
}

// mergeObservation folds one snapshot into the cache record: the latest
// fully-populated foreign status, and the consecutive-empty-read streak.
func (r *ReconcilerService) mergeObservation(cache *tunestatus.CacheRecord, snap tunestatus.StatusSnapshot, owned, empty bool, nowUnix int64, st config.StatusConfig) {
	text := Normalize(snap.Text)
	emoji := Normalize(snap.Emoji)

	if !owned && text != "" && emoji != "" {
		cache.LastNonEmptyNonOwned = &tunestatus.ForeignStatus{
			Text:       text,
			Emoji:      emoji,
			Expiration: snap.ExpirationEpoch,
			ObservedAt: nowUnix,
		}
	}

	if !empty {
		cache.EmptyRead = nil
		return
	}
	if cache.EmptyRead != nil && withinWindow(cache.EmptyRead.LastSeenAt, nowUnix, st.EmptyReadConfirmWindowSeconds) {
		cache.EmptyRead.ConsecutiveCount++
		cache.EmptyRead.LastSeenAt = nowUnix
		return
	}
	cache.EmptyRead = &tunestatus.EmptyReadState{LastSeenAt: nowUnix, ConsecutiveCount: 1}
}

func withinWindow(lastSeen, now, windowSeconds int64) bool {
	if windowSeconds <= 0 {
		return true
	}
	return now-lastSeen <= windowSeconds
}

// overrideAllowed evaluates gate 5. With require_two_empty_reads enabled, a
// fully empty remote status only counts as safe once emptiness has been
// observed on two consecutive runs within the confirm window.
func (r *ReconcilerService) overrideAllowed(st config.StatusConfig, cache tunestatus.CacheRecord, owned, empty, safe bool, nowUnix int64) bool {
	if st.AlwaysOverride {
		return true
	}
	if empty && !owned && st.RequireTwoEmptyReads {
		return cache.EmptyRead != nil &&
			cache.EmptyRead.ConsecutiveCount >= 2 &&
			withinWindow(cache.EmptyRead.LastSeenAt, nowUnix, st.EmptyReadConfirmWindowSeconds)
	}
	return safe
}

// finish records the run in the history and fans it out to listeners.
func (r *ReconcilerService) finish(ctx context.Context, rec tunestatus.RunRecord) tunestatus.RunRecord {
	if err := r.runs.Append(ctx, rec); err != nil {
		r.log.Warnw("run_history_append_failed", "err", err)
	}
	if r.broadcast != nil {
		r.broadcast(rec)
	}
	r.log.Debugw("run_finished", "outcome", rec.Outcome, "detail", rec.Detail)
	return rec
}
