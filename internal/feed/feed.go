// Package feed fetches event-timer records from the upstream metaforge API.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rbright/waybar-harvester/internal/harvester"
	"github.com/rbright/waybar-harvester/internal/httpx"
)

const DefaultURL = "https://metaforge.app/api/arc-raiders/event-timers"

// forwardedParams are the only query parameters the proxy passes upstream.
var forwardedParams = []string{"map", "name"}

// FetchError reports a network failure or a non-2xx upstream status.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch event timers: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a body that is not the expected JSON document, or a
// record carrying a malformed time string.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse event timers: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type response struct {
	Data []harvester.RawEvent `json:"data"`
}

type Client struct {
	baseURL string
	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{baseURL: strings.TrimSpace(baseURL), timeout: timeout}
}

// FetchRaw returns the records for the named event. An empty name asks the
// upstream for every event.
func (c *Client) FetchRaw(ctx context.Context, name string) ([]harvester.RawEvent, error) {
	query := url.Values{}
	if strings.TrimSpace(name) != "" {
		query.Set("name", strings.TrimSpace(name))
	}

	body, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

// FetchBody returns the upstream JSON document untouched. Only the map and
// name parameters are forwarded.
func (c *Client) FetchBody(ctx context.Context, query url.Values) ([]byte, error) {
	forwarded := url.Values{}
	for _, key := range forwardedParams {
		if value := strings.TrimSpace(query.Get(key)); value != "" {
			forwarded.Set(key, value)
		}
	}

	body, err := c.get(ctx, forwarded)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &ParseError{Err: fmt.Errorf("response is not valid json")}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, query url.Values) ([]byte, error) {
	target := c.baseURL
	if encoded := query.Encode(); encoded != "" {
		separator := "?"
		if strings.Contains(target, "?") {
			separator = "&"
		}
		target += separator + encoded
	}

	body, err := httpx.Do(ctx, http.MethodGet, target, map[string]string{"Accept": "application/json"}, nil, c.timeout)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	return body, nil
}

// Decode parses an upstream document and validates every time window.
func Decode(body []byte) ([]harvester.RawEvent, error) {
	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &ParseError{Err: err}
	}
	if decoded.Data == nil {
		return []harvester.RawEvent{}, nil
	}

	for _, event := range decoded.Data {
		for _, window := range event.Times {
			if _, err := harvester.ParseTimeOfDay(window.Start); err != nil {
				return nil, &ParseError{Err: fmt.Errorf("%s on %s: %w", event.Name, event.Map, err)}
			}
			if _, err := harvester.ParseTimeOfDay(window.End); err != nil {
				return nil, &ParseError{Err: fmt.Errorf("%s on %s: %w", event.Name, event.Map, err)}
			}
		}
	}
	return decoded.Data, nil
}
