// Package backend provides a client for the recommendation backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/rcplayer/internal/domain/session"
)

// Client is a recommendation backend client.
type Client struct {
	baseURL    string
	profile    string
	httpClient *http.Client
}

// Config represents backend client configuration.
type Config struct {
	BaseURL string
	Profile string // Optional; sent with session requests when set
	Timeout time.Duration
}

// FeedbackRequest is the body of a feedback submission.
type FeedbackRequest struct {
	SessionID string `json:"session_id"`
	VideoID   string `json:"video_id"`
	Action    string `json:"action"`
}

// HTTPError is returned when the backend answers with a non-200 status.
// Its message is the response body verbatim.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return e.Body
}

// New creates a new backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		profile:    cfg.Profile,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// BuildSession requests a new session seeded from seedURL with n items.
func (c *Client) BuildSession(ctx context.Context, seedURL string, n int) (*session.Session, error) {
	params := url.Values{}
	params.Set("seed_url", seedURL)
	params.Set("n", strconv.Itoa(n))
	if c.profile != "" {
		params.Set("profile", c.profile)
	}

	reqURL := c.baseURL + "/session?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var s session.Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	zlog.Debug().Msgf("backend: session built: session_id=%s items=%d", s.SessionID, s.Len())
	return &s, nil
}

// SubmitFeedback posts a feedback record. The response status is not inspected.
func (c *Client) SubmitFeedback(ctx context.Context, fb FeedbackRequest) error {
	payload, err := json.Marshal(fb)
	if err != nil {
		return errors.Wrap(err, "failed to encode feedback")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/feedback", bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	zlog.Debug().Msgf("backend: feedback sent: action=%s video_id=%s status=%d", fb.Action, fb.VideoID, resp.StatusCode)
	return nil
}
