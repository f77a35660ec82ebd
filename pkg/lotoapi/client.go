// Package lotoapi is the HTTP client for the upstream lottery platform. The
// platform is an opaque request/response boundary: this package knows its
// endpoint shapes and nothing about override semantics.
package lotoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bancalot/pool-admin-backend/internal/models"
)

// Client represents a lottery platform API client.
type Client struct {
	BaseURL  string
	APIToken string
	MockAPI  bool
	client   *http.Client
}

// NewClient creates a new platform API client.
func NewClient(baseURL, apiToken string, mockAPI bool) *Client {
	return &Client{
		BaseURL:  baseURL,
		APIToken: apiToken,
		MockAPI:  mockAPI,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchBetTypes retrieves the bet-type catalog with nested prize fields.
func (c *Client) FetchBetTypes(ctx context.Context) ([]models.BetType, error) {
	if c.MockAPI {
		return mockBetTypes(), nil
	}
	var out []models.BetType
	err := c.doJSON(ctx, http.MethodGet, "/bet-types/with-fields", nil, &out)
	return out, err
}

// FetchDraws retrieves the draws available to a betting pool.
func (c *Client) FetchDraws(ctx context.Context, poolID int) ([]models.Draw, error) {
	if c.MockAPI {
		return mockDraws(), nil
	}
	var out []models.Draw
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/betting-pools/%d/draws", poolID), nil, &out)
	return out, err
}

// FetchGeneralPrizeConfig retrieves a pool's general-scope prize overrides.
func (c *Client) FetchGeneralPrizeConfig(ctx context.Context, poolID int) ([]PrizeConfigValue, error) {
	if c.MockAPI {
		return nil, nil
	}
	var out []PrizeConfigValue
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/betting-pools/%d/prize-config", poolID), nil, &out)
	return out, err
}

// SaveGeneralPrizeConfig writes a pool's general-scope prize overrides.
func (c *Client) SaveGeneralPrizeConfig(ctx context.Context, poolID int, configs []PrizeConfigWrite) error {
	if c.MockAPI {
		return nil
	}
	body := map[string]interface{}{"prizeConfigs": configs}
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/betting-pools/%d/prize-config", poolID), body, nil)
}

// FetchDrawPrizeConfig retrieves one draw's prize overrides for a pool.
func (c *Client) FetchDrawPrizeConfig(ctx context.Context, poolID, drawID int) ([]PrizeConfigValue, error) {
	if c.MockAPI {
		return nil, nil
	}
	var out []PrizeConfigValue
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/betting-pools/%d/draws/%d/prize-config", poolID, drawID), nil, &out)
	return out, err
}

// SaveDrawPrizeConfigBatch writes prize overrides for any number of draws in
// a single request. This is the preferred write path; it avoids one request
// per touched draw.
func (c *Client) SaveDrawPrizeConfigBatch(ctx context.Context, poolID int, groups []DrawConfigGroup) error {
	if c.MockAPI {
		return nil
	}
	body := map[string]interface{}{"drawConfigs": groups}
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/betting-pools/%d/draws/prize-config/batch", poolID), body, nil)
}

// FetchCommissions retrieves a pool's commission configuration, general and
// per-lottery, both domains.
func (c *Client) FetchCommissions(ctx context.Context, poolID int) ([]CommissionConfig, error) {
	if c.MockAPI {
		return nil, nil
	}
	var out []CommissionConfig
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/betting-pools/%d/prizes-commissions", poolID), nil, &out)
	return out, err
}

// SaveCommissionsBatch writes commission configurations in a single request.
func (c *Client) SaveCommissionsBatch(ctx context.Context, poolID int, configs []CommissionConfig) error {
	if c.MockAPI {
		return nil
	}
	body := map[string]interface{}{"commissions": configs}
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/betting-pools/%d/prizes-commissions/batch", poolID), body, nil)
}

// doJSON issues one request and decodes the JSON response into out when out
// is non-nil. Non-2xx responses are returned as errors carrying the status
// and a trimmed body.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(detail))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
