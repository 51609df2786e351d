package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
)

// client is a thin HTTP client over the arena API.
type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) createContest(ctx context.Context, name string, start, end uint64, metric string, minSignals uint32, pool int64) (uint64, error) {
	body := map[string]any{
		"name":        name,
		"start_time":  start,
		"end_time":    end,
		"metric":      metric,
		"min_signals": minSignals,
		"prize_pool":  pool,
	}
	var resp struct {
		ContestID uint64 `json:"contest_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/contests", "", body, http.StatusCreated, &resp); err != nil {
		return 0, err
	}
	return resp.ContestID, nil
}

func (c *client) submitSignal(ctx context.Context, contestID uint64, provider string, signalID uint64, roi, volume int64, success bool) error {
	body := map[string]any{
		"provider":      provider,
		"signal_id":     signalID,
		"roi":           roi,
		"volume":        volume,
		"is_successful": success,
	}
	path := fmt.Sprintf("/contests/%d/signals", contestID)
	return c.do(ctx, http.MethodPost, path, provider, body, http.StatusOK, nil)
}

func (c *client) finalize(ctx context.Context, contestID uint64) ([]string, error) {
	var resp struct {
		Winners []string `json:"winners"`
	}
	path := fmt.Sprintf("/contests/%d/finalize", contestID)
	if err := c.do(ctx, http.MethodPost, path, "", nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Winners, nil
}

func (c *client) leaderboard(ctx context.Context, contestID uint64, limit int) ([]entry, error) {
	var entries []entry
	path := fmt.Sprintf("/contests/%d/leaderboard?limit=%d", contestID, limit)
	if err := c.do(ctx, http.MethodGet, path, "", nil, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *client) prize(ctx context.Context, contestID uint64, provider string) (*big.Int, error) {
	var resp struct {
		Amount *big.Int `json:"amount"`
	}
	path := fmt.Sprintf("/contests/%d/prizes/%s", contestID, provider)
	if err := c.do(ctx, http.MethodGet, path, "", nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Amount, nil
}

// do sends one request and decodes the response into out when non-nil.
// The provider argument, when set, is presented as the caller identity.
func (c *client) do(ctx context.Context, method, path, provider string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if provider != "" {
		req.Header.Set("X-Arena-Provider", provider)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
