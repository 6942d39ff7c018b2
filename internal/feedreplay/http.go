package feedreplay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/courtside/internal/domain/model"
)

// errBackpressure marks a 429 from the ingest endpoint.
var errBackpressure = errors.New("service is shedding load")

// HTTPClient wraps http.Client with JSON helpers.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// eventsRequest mirrors the ingest body.
type eventsRequest struct {
	League   string                `json:"league"`
	HomeTeam string                `json:"home_team"`
	AwayTeam string                `json:"away_team"`
	HomeAbbr string                `json:"home_abbr,omitempty"`
	AwayAbbr string                `json:"away_abbr,omitempty"`
	Events   []model.TimelineEvent `json:"events"`
}

// AckResponse is the ingest acknowledgement.
type AckResponse struct {
	Status     string `json:"status"`
	Accepted   int    `json:"accepted"`
	Duplicates int    `json:"duplicates"`
}

// GroupsResponse is the tiered groups view.
type GroupsResponse struct {
	GameID string              `json:"game_id"`
	Tiers  map[string]int      `json:"tiers"`
	Groups []model.TieredGroup `json:"groups"`
}

// MomentsResponse is the moments view.
type MomentsResponse struct {
	GameID  string         `json:"game_id"`
	Notable int            `json:"notable"`
	Moments []model.Moment `json:"moments"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// health checks that the metrics endpoint answers.
func (c *HTTPClient) health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}

// postBatch sends one batch for a game.
func (c *HTTPClient) postBatch(ctx context.Context, g model.Game, events []model.TimelineEvent) (AckResponse, error) {
	var ack AckResponse
	status, err := c.do(ctx, http.MethodPost, "/games/"+g.ID+"/events", eventsRequest{
		League:   g.League,
		HomeTeam: g.HomeTeam,
		AwayTeam: g.AwayTeam,
		HomeAbbr: g.HomeAbbr,
		AwayAbbr: g.AwayAbbr,
		Events:   events,
	}, &ack)
	if status == http.StatusTooManyRequests {
		return ack, fmt.Errorf("%w: %v", errBackpressure, err)
	}
	return ack, err
}

func (c *HTTPClient) groups(ctx context.Context, id string) (GroupsResponse, error) {
	var out GroupsResponse
	_, err := c.do(ctx, http.MethodGet, "/games/"+id+"/groups", nil, &out)
	return out, err
}

func (c *HTTPClient) moments(ctx context.Context, id string) (MomentsResponse, error) {
	var out MomentsResponse
	_, err := c.do(ctx, http.MethodGet, "/games/"+id+"/moments", nil, &out)
	return out, err
}

func (c *HTTPClient) putResume(ctx context.Context, id string, pos model.ResumePosition) (model.ResumePosition, error) {
	var out model.ResumePosition
	_, err := c.do(ctx, http.MethodPut, "/games/"+id+"/resume", pos, &out)
	return out, err
}

func (c *HTTPClient) getResume(ctx context.Context, id string) (model.ResumePosition, error) {
	var out model.ResumePosition
	_, err := c.do(ctx, http.MethodGet, "/games/"+id+"/resume", nil, &out)
	return out, err
}
