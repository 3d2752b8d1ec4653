// Package api implements the HTTP client for the courtside backend: fetch
// the active session, create a session, finalize it, and the one-shot match
// log that bypasses the live session flow entirely.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/session"
)

type (
	// Option configures the HTTP client.
	Option func(*Client)

	// Client talks JSON over HTTP to the backend and implements
	// session.Backend.
	Client struct {
		baseURL string
		http    *http.Client
		headers http.Header
	}

	// APIError is a non-2xx response decoded into a typed error.
	APIError struct {
		Status  int    `json:"-"`
		Message string `json:"error"`
	}
)

// Error renders the backend failure the way surfaces display it.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// WithHTTPClient overrides the underlying *http.Client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithHeader adds a static header to all outgoing requests.
func WithHeader(name, value string) Option {
	return func(cl *Client) {
		if cl.headers == nil {
			cl.headers = make(http.Header)
		}
		cl.headers.Add(name, value)
	}
}

// WithBearerToken configures the client to send an Authorization Bearer token.
func WithBearerToken(token string) Option {
	return WithHeader("Authorization", "Bearer "+token)
}

// WithTimeout overrides the default 30s request timeout. A hung backend must
// not leave the lifecycle stuck in loading/ending forever.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.http.Timeout = d
	}
}

// New constructs a backend client for the given base URL, for example
// "https://api.matchday.example".
func New(baseURL string, opts ...Option) *Client {
	cl := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(http.Header),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cl)
		}
	}
	return cl
}

// Ensure Client implements the lifecycle's backend boundary.
var _ session.Backend = (*Client)(nil)

// ActiveSession fetches the user's active session. A 404 or 204 means no
// session exists and yields (nil, nil).
func (c *Client) ActiveSession(ctx context.Context) (*session.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/sessions/active", nil)
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
		var s session.Session
		if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
			return nil, fmt.Errorf("decode active session: %w", err)
		}
		return &s, nil
	default:
		return nil, decodeError(resp)
	}
}

// CreateSession creates a session and returns the backend's representation,
// including the assigned id. Every call carries a fresh idempotency key so a
// backend that deduplicates can collapse an accidental double submit.
func (c *Client) CreateSession(ctx context.Context, req session.StartRequest) (*session.Session, error) {
	httpReq, err := c.jsonRequest(ctx, http.MethodPost, "/v1/sessions", req)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("X-Idempotency-Key", uuid.New().String())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}
	var s session.Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode created session: %w", err)
	}
	return &s, nil
}

// EndSession finalizes the identified session with its last score and
// practice state. Once acknowledged the session is closed on the backend.
func (c *Client) EndSession(ctx context.Context, id string, req session.EndRequest) error {
	httpReq, err := c.jsonRequest(ctx, http.MethodPost, "/v1/sessions/"+id+"/end", req)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return decodeError(resp)
	}
	return nil
}

// MatchLog is a completed match recorded directly, with no live session in
// between. Deliberately decoupled from the session lifecycle.
type MatchLog struct {
	ActivityType activity.Type      `json:"activity_type"`
	MatchType    activity.MatchType `json:"match_type"`
	Players      []string           `json:"players,omitempty"`
	Score        activity.Score     `json:"score"`
	PlayedAt     time.Time          `json:"played_at"`
}

// LogMatch writes a one-shot match record.
func (c *Client) LogMatch(ctx context.Context, m MatchLog) error {
	httpReq, err := c.jsonRequest(ctx, http.MethodPost, "/v1/matches", m)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyHeaders(req)
	return req, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
}

// decodeError maps a non-2xx response to an *APIError, carrying the
// backend's message verbatim when the body provides one.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, apiErr)
	}
	return apiErr
}

