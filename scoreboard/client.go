package scoreboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	club "temporal-club-tracker"
)

// Fetcher loads the club dataset.
type Fetcher interface {
	FetchClub(ctx context.Context) (club.ClubData, error)
}

// Client reads club.json from the web server or from any static host.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// URL is BaseURL when it already names a .json document, otherwise
// BaseURL/data/club.json.
func (c *Client) URL() string {
	if strings.HasSuffix(c.BaseURL, ".json") {
		return c.BaseURL
	}
	return strings.TrimRight(c.BaseURL, "/") + "/data/club.json"
}

func (c *Client) FetchClub(ctx context.Context) (club.ClubData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return club.ClubData{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return club.ClubData{}, fmt.Errorf("fetch club data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return club.ClubData{}, fmt.Errorf("fetch club data: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var data club.ClubData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return club.ClubData{}, fmt.Errorf("decode club data: %w", err)
	}
	return data, nil
}
