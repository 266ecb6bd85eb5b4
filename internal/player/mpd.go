package player

import (
	"context"
	"errors"
	"tunestatus"

	"github.com/fhs/gompd/v2/mpd"
)

// MPD queries a Music Player Daemon over its control socket. Each query
// dials a fresh connection; MPD's protocol is cheap and a held connection
// would need keepalive pings for nothing.
type MPD struct {
	addr string
}

func NewMPD(addr string) *MPD {
	return &MPD{addr: addr}
}

func (m *MPD) dial() (*mpd.Client, error) {
	if m.addr == "" {
		return nil, errors.New("mpd address not configured")
	}
	return mpd.Dial("tcp", m.addr)
}

func (m *MPD) IsRunning(_ context.Context) bool {
	c, err := m.dial()
	if err != nil {
		return false
	}
	defer func() { _ = c.Close() }()
	return c.Ping() == nil
}

func (m *MPD) State(_ context.Context) tunestatus.PlayerState {
	c, err := m.dial()
	if err != nil {
		return tunestatus.StateUnknown
	}
	defer func() { _ = c.Close() }()

	status, err := c.Status()
	if err != nil {
		return tunestatus.StateUnknown
	}
	switch status["state"] {
	case "play":
		return tunestatus.StatePlaying
	case "pause":
		return tunestatus.StatePaused
	case "stop":
		return tunestatus.StateStopped
	default:
		return tunestatus.StateUnknown
	}
}

func (m *MPD) CurrentTrack(_ context.Context) (string, error) {
	c, err := m.dial()
	if err != nil {
		return "", err
	}
	defer func() { _ = c.Close() }()

	song, err := c.CurrentSong()
	if err != nil {
		return "", err
	}
	label := Label(song["Artist"], song["Title"])
	if label == "" {
		// Streams without tags still carry a file path.
		label = song["file"]
	}
	return label, nil
}
