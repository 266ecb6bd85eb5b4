// Package player abstracts the local media player. Query failures are
// recovered locally: a player we cannot reach reports as not running or
// unknown, which steers the reconciler to its safe no-op path.
package player

import (
	"context"
	"fmt"
	"tunestatus"
	"tunestatus/internal/config"
)

// TrackSeparator joins artist and title in the published label. The
// classifier's ownership heuristic keys on this exact substring.
const TrackSeparator = " - "

type Player interface {
	IsRunning(ctx context.Context) bool
	State(ctx context.Context) tunestatus.PlayerState
	CurrentTrack(ctx context.Context) (string, error)
}

// New selects the backend configured under player.backend.
func New(cfg config.PlayerConfig) (Player, error) {
	switch cfg.Backend {
	case config.BackendMPD:
		return NewMPD(cfg.MPDAddress), nil
	case config.BackendOsascript:
		return NewOsascript(cfg.OsascriptTimeoutSeconds), nil
	default:
		return nil, fmt.Errorf("unknown player backend %q", cfg.Backend)
	}
}

// Label builds the "Artist - Title" track label. A missing artist yields the
// bare title so the label never starts with the separator.
func Label(artist, title string) string {
	if artist == "" {
		return title
	}
	if title == "" {
		return artist
	}
	return artist + TrackSeparator + title
}
