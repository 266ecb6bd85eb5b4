package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
	"tunestatus"
	"tunestatus/internal/service"
)

func TestGetRuns(t *testing.T) {
	hist := &mockRunHistory{resp: []tunestatus.RunRecord{
		{RunID: "r1", Outcome: tunestatus.OutcomeStatusSet, Track: "Artist - Song"},
		{RunID: "r2", Outcome: tunestatus.OutcomeNotPlaying},
	}}
	s := &service.Service{Auth: defaultAuth(), RunHistory: hist}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/runs?from=2026-08-01&to=2026-08-30&outcome=status_set", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Count int                    `json:"count"`
		Runs  []tunestatus.RunRecord `json:"runs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Runs) != 2 {
		t.Fatalf("count = %d, runs = %d", resp.Count, len(resp.Runs))
	}
	if hist.lastOutcome != "STATUS_SET" {
		t.Fatalf("outcome not uppercased: %q", hist.lastOutcome)
	}
	wantFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !hist.lastFrom.Equal(wantFrom) {
		t.Fatalf("from = %v, want %v", hist.lastFrom, wantFrom)
	}
	// A date-only "to" covers the whole day.
	if !hist.lastTo.After(time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("to = %v, want end of 2026-08-30", hist.lastTo)
	}
}

func TestGetRunsAcceptsRFC3339(t *testing.T) {
	hist := &mockRunHistory{}
	s := &service.Service{Auth: defaultAuth(), RunHistory: hist}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/runs?from=2026-08-29T10:00:00Z&to=2026-08-29T11:00:00Z", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !hist.lastFrom.Equal(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("from = %v", hist.lastFrom)
	}
	// An exact timestamp is not widened to end-of-day.
	if !hist.lastTo.Equal(time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC)) {
		t.Fatalf("to = %v", hist.lastTo)
	}
}

func TestGetRunsBadTimes(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad from", "?from=yesterday"},
		{"bad to", "?to=31/08/2026"},
		{"from after to", "?from=2026-08-30&to=2026-08-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &service.Service{Auth: defaultAuth(), RunHistory: &mockRunHistory{}}
			r := newTestRouter(s)

			w := doRequest(r, http.MethodGet, "/api/v1/runs"+tt.query, nil, true)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}
