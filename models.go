package tunestatus

import "time"

// PlayerState is the playback state reported by the media player backend.
type PlayerState string

const (
	StatePlaying PlayerState = "playing"
	StatePaused  PlayerState = "paused"
	StateStopped PlayerState = "stopped"
	StateUnknown PlayerState = "unknown"
)

// StatusSnapshot is the remote profile status as observed on one read.
// It is a read-only view of server state at a point in time.
type StatusSnapshot struct {
	Text            string `json:"text"`
	Emoji           string `json:"emoji"`
	ExpirationEpoch int64  `json:"expiration_epoch"`
}

// ForeignStatus records the most recent fully populated status that was not
// set by this process. Single most-recent entry, overwritten on each sighting.
type ForeignStatus struct {
	Text       string `json:"text"`
	Emoji      string `json:"emoji"`
	Expiration int64  `json:"expiration"`
	ObservedAt int64  `json:"observed_at"`
}

// ScriptStatus records the most recent status this process wrote remotely.
type ScriptStatus struct {
	Text       string `json:"text"`
	Emoji      string `json:"emoji"`
	Expiration int64  `json:"expiration"`
	SetAt      int64  `json:"set_at"`
}

// EmptyReadState tracks consecutive observations of a fully empty remote
// status, for the two-empty-reads override guard.
type EmptyReadState struct {
	LastSeenAt       int64 `json:"last_seen_at"`
	ConsecutiveCount int   `json:"consecutive_count"`
}

// CacheRecord is the single persisted record carried between runs. Each field
// independently holds at most one entry, always the latest; it is a mutable
// record, not a log.
type CacheRecord struct {
	UpdatedAt            int64           `json:"updated_at"`
	LastNonEmptyNonOwned *ForeignStatus  `json:"last_non_empty_non_owned,omitempty"`
	EmptyRead            *EmptyReadState `json:"empty_read,omitempty"`
	LastSetByScript      *ScriptStatus   `json:"last_set_by_script,omitempty"`
}

// Run outcomes, one per reconcile invocation.
const (
	OutcomePlayerNotRunning = "PLAYER_NOT_RUNNING"
	OutcomeReadFailed       = "READ_FAILED"
	OutcomeRemoteError      = "REMOTE_ERROR"
	OutcomeNotPlaying       = "NOT_PLAYING"
	OutcomeBlockedForeign   = "BLOCKED_FOREIGN"
	OutcomeSetFailed        = "SET_FAILED"
	OutcomeStatusSet        = "STATUS_SET"
)

// RunRecord is one entry of the reconcile run history.
type RunRecord struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Outcome   string    `json:"outcome"` // see Outcome* constants
	Track     string    `json:"track,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Metadata  any       `json:"metadata,omitempty"`
}
