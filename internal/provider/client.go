// Package provider implements a thin client for the Cloudflare v4 style
// DNS API. Every call authenticates with a bearer token supplied by the
// caller; the client itself holds no credential.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cfpanel/internal/metrics"
)

// Client provides access to the provider's DNS HTTP API.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates an API client for the given endpoint, for example
// "https://api.cloudflare.com/client/v4". Each call is bounded by the fixed
// timeout; there are no retries.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil {
		return nil, err
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// ErrorInfo is one entry of the provider error payload.
type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type resultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
}

// envelope is the provider's uniform response wrapper.
type envelope struct {
	Success    bool            `json:"success"`
	Errors     []ErrorInfo     `json:"errors"`
	Messages   []ErrorInfo     `json:"messages"`
	Message    string          `json:"message"`
	Result     json.RawMessage `json:"result"`
	ResultInfo *resultInfo     `json:"result_info"`
}

// APIError is an application-level failure reported by the provider, either
// as success=false or as a non-2xx status.
type APIError struct {
	Status  int
	Errors  []ErrorInfo
	Message string
}

// Error joins every provider error as "[code] message". When the payload
// carries no errors array it falls back to the message field, then to a
// generic string.
func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		parts := make([]string, 0, len(e.Errors))
		for _, ei := range e.Errors {
			parts = append(parts, fmt.Sprintf("[%d] %s", ei.Code, ei.Message))
		}
		return strings.Join(parts, "; ")
	}
	if e.Message != "" {
		return e.Message
	}
	return "unknown error"
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, query url.Values, body any) (*http.Request, error) {
	u := *c.base
	u.Path = c.base.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var buf io.Reader
	if body != nil {
		b := new(bytes.Buffer)
		if err := json.NewEncoder(b).Encode(body); err != nil {
			return nil, err
		}
		buf = b
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do issues the request and decodes the provider envelope. Transport
// failures and unparseable bodies come back as wrapped generic errors;
// provider-reported failures come back as *APIError.
func (c *Client) do(endpoint string, req *http.Request) (*envelope, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveProviderCall(endpoint, "transport_error", time.Since(start))
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		metrics.ObserveProviderCall(endpoint, "transport_error", time.Since(start))
		return nil, fmt.Errorf("provider request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		metrics.ObserveProviderCall(endpoint, "api_error", time.Since(start))
		return nil, &APIError{Status: resp.StatusCode, Errors: env.Errors, Message: env.Message}
	}

	metrics.ObserveProviderCall(endpoint, "ok", time.Since(start))
	return &env, nil
}
