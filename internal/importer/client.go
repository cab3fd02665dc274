// Package importer submits the stored game to the board service.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/geoboard/leaderboard/internal/destination"
	"github.com/geoboard/leaderboard/internal/geoguessr"
)

// SessionCookie is the board service's player session cookie.
const SessionCookie = "player_session"

// Result is the service's answer to a successful import.
type Result struct {
	ResultID            string  `json:"result_id"`
	TotalScore          int     `json:"total_score"`
	TotalDistanceMeters float64 `json:"total_distance_m"`
	Duplicate           bool    `json:"duplicate"`
}

// StatusError is a non-2xx response from the service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("import rejected: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("import rejected: %d %s", e.StatusCode, e.Message)
}

// TransportError means the request never got a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "reaching board service: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	session string
	http    *http.Client
}

func NewClient(baseURL, session string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), session: session, http: hc}
}

// Submit posts p to /api/import once. There are no retries.
func (c *Client) Submit(ctx context.Context, p geoguessr.ImportPayload) (Result, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Result{}, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/import", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.addSession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, statusError(resp)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, &TransportError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	return res, nil
}

// FetchContext loads a board page as the session player and resolves the
// destination context from it.
func (c *Client) FetchContext(ctx context.Context, pageURL string) (destination.Context, error) {
	if !strings.Contains(pageURL, "://") {
		pageURL = c.baseURL + "/" + strings.TrimLeft(pageURL, "/")
	}
	if _, err := destination.BoardSlug(pageURL); err != nil {
		return destination.Context{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return destination.Context{}, fmt.Errorf("building request: %w", err)
	}
	c.addSession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return destination.Context{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return destination.Context{}, statusError(resp)
	}
	return destination.Resolve(pageURL, resp.Body)
}

func (c *Client) addSession(req *http.Request) {
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.session})
	}
}

func statusError(resp *http.Response) *StatusError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
