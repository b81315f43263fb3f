package teams

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches meeting notes from the third-party Teams notes API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type MeetingNote struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	HeldAt  time.Time `json:"held_at"`
}

// Enabled reports whether a base URL was configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// ListNotes returns the meeting notes recorded since the given time.
func (c *Client) ListNotes(ctx context.Context, since time.Time) ([]MeetingNote, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("teams api is not configured")
	}

	url := fmt.Sprintf("%s/notes?since=%s", c.baseURL, since.UTC().Format(time.RFC3339))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build teams request failed: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("teams request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read teams response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("teams response status %d: %s", resp.StatusCode, string(raw))
	}

	var notes []MeetingNote
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, fmt.Errorf("parse teams notes failed: %w", err)
	}
	return notes, nil
}
