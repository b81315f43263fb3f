package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the external vector-index service. Indexing, ranking and
// storage all live on the other side; this is transport glue only.
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

type IndexRequest struct {
	DocumentID uint        `json:"document_id"`
	Vectors    [][]float32 `json:"vectors"`
	Payload    interface{} `json:"payload,omitempty"`
}

type IndexResult struct {
	VectorID string `json:"vector_id"`
}

// Stats mirrors the service's stats payload.
type Stats struct {
	IndexedDocuments int64  `json:"indexed_documents"`
	VectorCount      int64  `json:"vector_count"`
	CollectionName   string `json:"collection_name"`
}

// Index pushes a document's chunk embeddings to the service.
func (c *Client) Index(ctx context.Context, req IndexRequest) (*IndexResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/documents", req)
	if err != nil {
		return nil, err
	}
	var result IndexResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse vector index response failed: %w", err)
	}
	return &result, nil
}

// Remove deletes a document's vectors from the index.
func (c *Client) Remove(ctx context.Context, documentID uint) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/documents/%d", documentID), nil)
	return err
}

// ReindexAll asks the service to rebuild its index from scratch.
func (c *Client) ReindexAll(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/reindex", nil)
	return err
}

// GetStats fetches index statistics.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	raw, err := c.do(ctx, http.MethodGet, "/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("parse vector stats failed: %w", err)
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal vector request failed: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build vector request failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vector request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read vector response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vector response status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
