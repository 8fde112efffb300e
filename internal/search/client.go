// Package search provides the client for the external semantic search
// collaborator. The service owns the embeddings and the vector index; this
// client only translates queries into ranked row indices.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"htscompass/internal/common"
	"htscompass/internal/service"
)

// Client implements service.Searcher against the search service's HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      service.RetryOptions
}

// Config holds search client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   service.RetryOptions
}

// NewClient creates a search client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: search base URL is required", common.ErrInvalidInput)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		retry:      cfg.Retry,
	}, nil
}

type searchRequest struct {
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	ExactCode string `json:"exact_code,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
}

type searchResponse struct {
	Hits []struct {
		RowIndex int     `json:"row_index"`
		Score    float64 `json:"score"`
	} `json:"hits"`
}

// Search submits a query and returns ranked hits in service order. The
// request is bounded by the client timeout and the caller's context; a
// caller abandoning a session mid-lookup simply discards the result.
func (c *Client) Search(ctx context.Context, query string, limit int, filter service.SearchFilter) ([]service.SearchHit, error) {
	body, err := json.Marshal(searchRequest{
		Query:     query,
		Limit:     limit,
		ExactCode: filter.ExactCode,
		Prefix:    filter.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	var hits []service.SearchHit
	err = common.WithRetry(ctx, func() error {
		got, reqErr := c.doSearch(ctx, body)
		if reqErr != nil {
			return reqErr
		}
		hits = got
		return nil
	}, c.retry)
	if err != nil {
		return nil, err
	}
	return hits, nil
}

func (c *Client) doSearch(ctx context.Context, body []byte) ([]service.SearchHit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, &common.RetryableError{Err: err, Retryable: false}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &common.RetryableError{Err: err, Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		reqErr := fmt.Errorf("search service returned %d: %s", resp.StatusCode, payload)
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, &common.RetryableError{Err: reqErr, Retryable: retryable}
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to decode search response: %w", err), Retryable: false}
	}

	hits := make([]service.SearchHit, 0, len(decoded.Hits))
	for _, h := range decoded.Hits {
		hits = append(hits, service.SearchHit{RowIndex: h.RowIndex, Score: h.Score})
	}
	return hits, nil
}
