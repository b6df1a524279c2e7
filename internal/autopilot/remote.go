package autopilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/talgya/chancellor/internal/policy"
	"github.com/talgya/chancellor/internal/state"
)

// TurnResult is the response from POST /api/v1/turn.
type TurnResult struct {
	Turn     int    `json:"turn"`
	GameOver bool   `json:"game_over"`
	Reason   string `json:"reason,omitempty"`
}

// Client observes and steers a running server via its API.
type Client struct {
	BaseURL    string
	AdminKey   string
	HTTPClient *http.Client
}

// NewClient creates a Client targeting the given API base URL with admin auth.
func NewClient(baseURL, adminKey string) *Client {
	return &Client{
		BaseURL:  baseURL,
		AdminKey: adminKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Snapshot fetches GET /api/v1/snapshot.
func (c *Client) Snapshot(ctx context.Context) (*state.Snapshot, error) {
	var s state.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/v1/snapshot", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Apply sends a decision to POST /api/v1/policy.
func (c *Client) Apply(ctx context.Context, d policy.Decision) (policy.Report, error) {
	var rep policy.Report
	err := c.do(ctx, http.MethodPost, "/api/v1/policy", d, &rep)
	return rep, err
}

// Advance asks the server to play one turn.
func (c *Client) Advance(ctx context.Context) (TurnResult, error) {
	var res TurnResult
	err := c.do(ctx, http.MethodPost, "/api/v1/turn", nil, &res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AdminKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.AdminKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s failed (%d): %s", method, path, resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// WaitReady polls GET /api/v1/status with exponential backoff until the
// server answers 200 or ctx ends.
func (c *Client) WaitReady(ctx context.Context) error {
	backoff := 2 * time.Second
	const maxBackoff = 30 * time.Second

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/v1/status", nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		resp, err := c.HTTPClient.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				slog.Info("chancellor API is ready", "url", c.BaseURL)
				return nil
			}
		}
		slog.Info("chancellor API not ready, retrying...", "backoff", backoff)
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s: %w", c.BaseURL, ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// Drive steers the server for up to n turns: observe, decide, act, advance.
// It stops early when the game ends.
func (p *Pilot) Drive(ctx context.Context, c *Client, n int) error {
	for i := 0; i < n; i++ {
		s, err := c.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("observe: %w", err)
		}
		if s.Meta.GameOver {
			slog.Info("game already over", "turn", s.Meta.Turn, "reason", s.Meta.GameOverReason)
			return nil
		}

		plan := p.Plan(s)
		if !plan.Decision.Empty() {
			rep, err := c.Apply(ctx, plan.Decision)
			if err != nil {
				return fmt.Errorf("apply %s: %w", plan.Action(), err)
			}
			p.noteReport(rep)
			slog.Info("autopilot decision", "turn", s.Meta.Turn, "action", plan.Action(), "rationale", plan.Rationale)
		}

		res, err := c.Advance(ctx)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if res.GameOver {
			slog.Warn("game over", "turn", res.Turn, "reason", res.Reason)
			return nil
		}
	}
	return nil
}
