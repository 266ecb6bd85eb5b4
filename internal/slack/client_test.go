package slack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetStatus_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users.profile.get" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer xoxp-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"profile": map[string]any{
				"status_text":       "Lunch",
				"status_emoji":      ":pizza:",
				"status_expiration": 1700000000,
			},
		})
	}))
	defer srv.Close()

	c := NewClient("xoxp-token", WithBaseURL(srv.URL))
	snap, err := c.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if snap.Text != "Lunch" || snap.Emoji != ":pizza:" || snap.ExpirationEpoch != 1700000000 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestGetStatus_APIErrorIsTyped(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "invalid_auth"})
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL))
	_, err := c.GetStatus(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != "invalid_auth" {
		t.Fatalf("code = %q", apiErr.Code)
	}
}

func TestGetStatus_MalformedBodyIsTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	c := NewClient("xoxp", WithBaseURL(srv.URL))
	_, err := c.GetStatus(context.Background())
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}

func TestGetStatus_Non2xxIsTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("xoxp", WithBaseURL(srv.URL))
	_, err := c.GetStatus(context.Background())
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}

func TestSetStatus_SendsProfilePayload(t *testing.T) {
	t.Parallel()

	var got struct {
		Profile struct {
			StatusText       string `json:"status_text"`
			StatusEmoji      string `json:"status_emoji"`
			StatusExpiration int64  `json:"status_expiration"`
		} `json:"profile"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users.profile.set" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	c := NewClient("xoxp", WithBaseURL(srv.URL))
	if err := c.SetStatus(context.Background(), "Artist - Song", ":musical_note:", 1700000120); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got.Profile.StatusText != "Artist - Song" ||
		got.Profile.StatusEmoji != ":musical_note:" ||
		got.Profile.StatusExpiration != 1700000120 {
		t.Fatalf("unexpected payload: %+v", got.Profile)
	}
}

func TestSetStatus_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "profile_set_failed"})
	}))
	defer srv.Close()

	c := NewClient("xoxp", WithBaseURL(srv.URL))
	err := c.SetStatus(context.Background(), "x", ":musical_note:", 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "profile_set_failed" {
		t.Fatalf("expected typed api error, got %v", err)
	}
}
