// Package client talks to a running workshopcost server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smartworkshop/workshopcost/pkg/common"
	"github.com/smartworkshop/workshopcost/pkg/types"
)

// ErrNotFound is returned when the server responds with 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.StatusCode, e.Message)
}

// Client is a typed client for the workshopcost HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL. If httpClient is nil a
// client with a 10 second timeout is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = common.HTTPClient(10 * time.Second)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// GetTariff returns the current tariff.
func (c *Client) GetTariff(ctx context.Context) (types.Tariff, error) {
	var t types.Tariff
	err := c.do(ctx, http.MethodGet, "/api/tariff", nil, &t)
	return t, err
}

// SetTariff replaces both tariff rates.
func (c *Client) SetTariff(ctx context.Context, tariff types.Tariff) (types.Tariff, error) {
	var t types.Tariff
	err := c.do(ctx, http.MethodPut, "/api/tariff", tariff, &t)
	return t, err
}

// ListMachines returns the machines in the order they were added.
func (c *Client) ListMachines(ctx context.Context) ([]types.Machine, error) {
	var machines []types.Machine
	err := c.do(ctx, http.MethodGet, "/api/machines", nil, &machines)
	return machines, err
}

// AddMachine creates a machine. The server assigns its ID.
func (c *Client) AddMachine(ctx context.Context, name string, powerRating, operatingHours, peakPercentage float64) (types.Machine, error) {
	req := struct {
		Name           string  `json:"name"`
		PowerRating    float64 `json:"powerRating"`
		OperatingHours float64 `json:"operatingHours"`
		PeakPercentage float64 `json:"peakPercentage"`
	}{name, powerRating, operatingHours, peakPercentage}

	var m types.Machine
	err := c.do(ctx, http.MethodPost, "/api/machines", req, &m)
	return m, err
}

// RemoveMachine deletes a machine. It returns ErrNotFound if the machine does
// not exist.
func (c *Client) RemoveMachine(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/machines/"+url.PathEscape(id), nil, nil)
}

// Report returns the cost of every machine and the fleet totals.
func (c *Client) Report(ctx context.Context) (types.CostReport, error) {
	var r types.CostReport
	err := c.do(ctx, http.MethodGet, "/api/report", nil, &r)
	return r, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		// the body is best effort, the status code is what matters
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
