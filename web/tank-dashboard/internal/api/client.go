package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"tank-dashboard-go/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New() *Client {
	base := os.Getenv("API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) TankData(ctx context.Context, tankID int) (*models.Snapshot, error) {
	params := url.Values{}
	params.Set("tank_id", fmt.Sprintf("%d", tankID))
	var out models.Snapshot
	if err := c.getJSON(ctx, "/api/tank/data", &out, params); err != nil {
		return nil, err
	}
	// The API signals a failed refresh either via status code or a non-OK
	// status field; treat both the same.
	if out.Status != "OK" {
		return nil, fmt.Errorf("api returned status %q", out.Status)
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any, params url.Values) error {
	u := c.baseURL + path
	if params != nil {
		if q := params.Encode(); q != "" {
			u += "?" + q
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
