package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"shortlister/internal/backoff"
	"shortlister/internal/logger"
)

const (
	defaultAPIURL = "https://api.airtable.com/v0"
	contentType   = "application/json"

	// Max page size the API allows.
	pageSize = "100"

	defaultMaxRetries   = 3
	defaultRetryBackoff = 500 * time.Millisecond

	// How much of an error response body to carry into the error message.
	errorBodyLimit = 200
)

// Client is a minimal Airtable REST client covering what the shortlisting
// pipeline needs: listing records with pagination and creating or patching
// single records.
type Client struct {
	token  string
	baseID string
	logger *zap.Logger

	HTTPClient *http.Client
	APIURL     string
	MaxRetries int
}

func New(token, baseID string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		baseID: baseID,
		APIURL: defaultAPIURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		MaxRetries: defaultMaxRetries,
		logger:     logger,
	}
}

// Record is one Airtable record: an opaque id plus a free-form fields map.
// The store enforces no schema; all reconciliation happens in the pipeline.
type Record struct {
	ID          string         `json:"id,omitempty"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

type recordsResponse struct {
	Records []*Record `json:"records"`
	Offset  string    `json:"offset,omitempty"`
}

// ListRecords returns every record of the table, following pagination
// offsets until the API stops returning one.
func (c *Client) ListRecords(ctx context.Context, table string) ([]*Record, error) {
	var records []*Record

	q := url.Values{}
	q.Set("pageSize", pageSize)

	for {
		var page recordsResponse
		if err := c.doJSON(ctx, http.MethodGet, c.tableURL(table), q, nil, &page); err != nil {
			return nil, fmt.Errorf("list records from %q: %w", table, err)
		}

		records = append(records, page.Records...)

		if page.Offset == "" {
			break
		}

		c.logger.Debug("additional page needed",
			zap.String("table", table),
			zap.Int("records_so_far", len(records)),
		)
		q.Set("offset", page.Offset)
	}

	c.logger.Debug("retrieved records", zap.String("table", table), zap.Int("count", len(records)))

	return records, nil
}

// CreateRecord inserts a new record into the table.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}

	var created Record
	if err := c.doJSON(ctx, http.MethodPost, c.tableURL(table), nil, body, &created); err != nil {
		return nil, fmt.Errorf("create record in %q: %w", table, err)
	}

	return &created, nil
}

// UpdateRecord patches the fields of an existing record in place.
func (c *Client) UpdateRecord(ctx context.Context, table, recordID string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}
	target := fmt.Sprintf("%s/%s", c.tableURL(table), url.PathEscape(recordID))

	var updated Record
	if err := c.doJSON(ctx, http.MethodPatch, target, nil, body, &updated); err != nil {
		return nil, fmt.Errorf("update record %s in %q: %w", recordID, table, err)
	}

	return &updated, nil
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.APIURL, url.PathEscape(c.baseID), url.PathEscape(table))
}

// doJSON performs one API call with capped exponential backoff on transient
// failures (network errors, 429 and 5xx responses).
func (c *Client) doJSON(ctx context.Context, method, target string, q url.Values, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	attempts := c.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := backoff.Delay(defaultRetryBackoff, attempt)
			c.logger.Warn("airtable request failed, retrying",
				zap.String("url", target),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := backoff.Wait(ctx, delay); err != nil {
				return err
			}
		}

		var retryable bool
		lastErr, retryable = c.doOnce(ctx, method, target, q, payload, result)
		if lastErr == nil {
			return nil
		}
		if !retryable {
			return lastErr
		}
	}

	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, target string, q url.Values, payload []byte, result any) (err error, retryable bool) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err, false
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("method", method), zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err, true
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err, true
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		if body := logger.TruncateForLog(string(data), errorBodyLimit); body != "" {
			return fmt.Errorf("bad status: %s: %s", resp.Status, body), retryable
		}
		return fmt.Errorf("bad status: %s", resp.Status), retryable
	}

	if result == nil {
		return nil, false
	}

	if err := json.Unmarshal(data, result); err != nil {
		return err, false
	}

	return nil, false
}
