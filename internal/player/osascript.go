package player

import (
	"context"
	"os/exec"
	"strings"
	"time"
	"tunestatus"
)

// Osascript queries Music.app through AppleScript one-liners. Every call runs
// under a fixed timeout; a hung osascript must not stall the reconcile loop.
type Osascript struct {
	timeout time.Duration
}

const defaultOsascriptTimeout = 5 * time.Second

func NewOsascript(timeoutSeconds int) *Osascript {
	timeout := defaultOsascriptTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &Osascript{timeout: timeout}
}

func (o *Osascript) run(ctx context.Context, script string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (o *Osascript) IsRunning(ctx context.Context) bool {
	out, err := o.run(ctx, `application "Music" is running`)
	return err == nil && out == "true"
}

func (o *Osascript) State(ctx context.Context) tunestatus.PlayerState {
	out, err := o.run(ctx, `tell application "Music" to player state as string`)
	if err != nil {
		return tunestatus.StateUnknown
	}
	switch out {
	case "playing":
		return tunestatus.StatePlaying
	case "paused":
		return tunestatus.StatePaused
	case "stopped":
		return tunestatus.StateStopped
	default:
		return tunestatus.StateUnknown
	}
}

func (o *Osascript) CurrentTrack(ctx context.Context) (string, error) {
	artist, err := o.run(ctx, `tell application "Music" to get artist of current track`)
	if err != nil {
		return "", err
	}
	title, err := o.run(ctx, `tell application "Music" to get name of current track`)
	if err != nil {
		return "", err
	}
	return Label(artist, title), nil
}
