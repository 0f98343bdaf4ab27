// Package taxforms is a read-only HTTP client for the sibling client
// backend's tax-form records. The integration is best effort: the sibling
// service being down maps to ErrUnavailable, never a crash.
package taxforms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/common/config"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

// ErrUnavailable is returned when the sibling backend cannot be reached
var ErrUnavailable = errors.New("client backend is not available")

// Query narrows the form listing
type Query struct {
	Status string
	Limit  int
	Offset int
}

// Client fetches tax forms from the sibling backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a tax-forms client with the configured timeout
func NewClient(cfg *config.TaxFormsConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("taxforms"),
	}
}

// ListForms retrieves tax-form records from the sibling backend
func (c *Client) ListForms(ctx context.Context, q Query) (*dto.TaxFormListResponse, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("offset", strconv.Itoa(q.Offset))
	if q.Status != "" {
		params.Set("status", q.Status)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/t1-forms/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("client backend unreachable", zap.Error(err))
		return nil, ErrUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("client backend returned status %d", resp.StatusCode)
	}

	var out dto.TaxFormListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode client backend response: %w", err)
	}
	out.Limit = q.Limit
	out.Offset = q.Offset
	return &out, nil
}
