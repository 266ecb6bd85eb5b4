// Package slack is a thin client for the two profile-status calls this
// system makes. Failures are split into two types the reconciler treats
// differently: TransportError (network / non-JSON response, retryable) and
// APIError (the service answered ok:false, terminal).
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"tunestatus"
)

const defaultBaseURL = "https://slack.com/api"

// TransportError covers network failures, non-2xx responses, and bodies that
// do not parse as JSON.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("slack %s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// APIError is an explicit ok:false answer from the service.
type APIError struct {
	Op   string
	Code string
}

func (e *APIError) Error() string { return fmt.Sprintf("slack %s: api error %q", e.Op, e.Code) }

type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Tests use this to
// target an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient swaps the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type profilePayload struct {
	StatusText       string `json:"status_text"`
	StatusEmoji      string `json:"status_emoji"`
	StatusExpiration int64  `json:"status_expiration"`
}

type apiResponse struct {
	OK      bool            `json:"ok"`
	Error   string          `json:"error,omitempty"`
	Profile *profilePayload `json:"profile,omitempty"`
}

func (c *Client) call(ctx context.Context, op string, body any) (*apiResponse, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, &TransportError{Op: op, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+op, &buf)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !parsed.OK {
		return nil, &APIError{Op: op, Code: parsed.Error}
	}
	return &parsed, nil
}

// GetStatus reads the current profile status. One attempt; retry policy
// belongs to the caller.
func (c *Client) GetStatus(ctx context.Context) (tunestatus.StatusSnapshot, error) {
	resp, err := c.call(ctx, "users.profile.get", nil)
	if err != nil {
		return tunestatus.StatusSnapshot{}, err
	}
	if resp.Profile == nil {
		return tunestatus.StatusSnapshot{}, nil
	}
	return tunestatus.StatusSnapshot{
		Text:            resp.Profile.StatusText,
		Emoji:           resp.Profile.StatusEmoji,
		ExpirationEpoch: resp.Profile.StatusExpiration,
	}, nil
}

// SetStatus writes the profile status. Never retried by anyone: a second
// attempt could publish a stale track name.
func (c *Client) SetStatus(ctx context.Context, text, emoji string, expiration int64) error {
	body := map[string]any{
		"profile": profilePayload{
			StatusText:       text,
			StatusEmoji:      emoji,
			StatusExpiration: expiration,
		},
	}
	_, err := c.call(ctx, "users.profile.set", body)
	return err
}
