package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/preinvoice/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the ERP APIs (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client is the shared HTTP plumbing of the ERP adapters: base URL, API key
// and the tagged-error discipline every fetch follows. Failures never leak
// partial payloads; callers either get a decoded record or a FetchError.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for one ERP service base URL
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientFromConfig creates a client from the application ERP configuration
func NewClientFromConfig(cfg *config.ErpConfig) *Client {
	return NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
}

// getJSON performs a GET against path with query values and decodes the JSON
// response into out. Errors are tagged with the fetch-error kind so the
// editing surface can distinguish "service down" from "record not found".
func (c *Client) getJSON(ctx context.Context, service, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return preinvoice.NewFetchError(preinvoice.FetchErrorNetwork, service, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return preinvoice.NewFetchError(preinvoice.FetchErrorNetwork, service, err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(service, resp, out)
}

// postJSON performs a POST with a JSON body and decodes the JSON response
func (c *Client) postJSON(ctx context.Context, service, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return preinvoice.NewFetchError(preinvoice.FetchErrorNetwork, service, err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return preinvoice.NewFetchError(preinvoice.FetchErrorNetwork, service, err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(service, resp, out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) decodeResponse(service string, resp *http.Response, out any) error {
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return preinvoice.NewFetchError(preinvoice.FetchErrorNetwork, service, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return preinvoice.NewFetchError(preinvoice.FetchErrorNetwork, service,
			fmt.Errorf("upstream returned status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return preinvoice.NewFetchError(preinvoice.FetchErrorLogical, service,
			fmt.Errorf("upstream rejected request with status %d: %s", resp.StatusCode, truncate(payload, 200)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return preinvoice.NewFetchError(preinvoice.FetchErrorParse, service, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
