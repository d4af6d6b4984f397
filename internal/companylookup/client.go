// Package companylookup resolves a company's registered name from the public
// CNPJ registry.
package companylookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"painel/pkg/cnpj"
)

const (
	// NotInformed is shown when the registry has no name for the company or
	// the tenant has no tax id.
	NotInformed = "Not informed"
	// ErrorResolving is shown when the lookup failed.
	ErrorResolving = "Error resolving"

	DefaultBaseURL = "https://publica.cnpj.ws/cnpj"

	maxBodyBytes = 1 << 20
)

// Resolver resolves a normalized tax id to a company name.
type Resolver interface {
	ResolveCompanyName(ctx context.Context, taxID string) (string, error)
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient calls GET {base}/{14 digits}. The registry needs no credentials.
type HTTPClient struct {
	baseURL string
	client  HTTPDoer
}

type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient HTTPDoer
}

func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}
}

type companyResponse struct {
	RazaoSocial *string `json:"razao_social"`
}

func (c *HTTPClient) ResolveCompanyName(ctx context.Context, taxID string) (string, error) {
	digits := cnpj.Normalize(taxID)
	if !cnpj.IsValid(digits) {
		return "", newLookupError(CategoryBadData, "tax id must have 14 digits", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+digits, nil)
	if err != nil {
		return "", newLookupError(CategoryBadData, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", newLookupError(CategoryTimeout, "request timeout", err)
		}
		return "", newLookupError(CategoryOutage, "failed to execute request", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", err
	}

	var body companyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		if isTimeout(ctx, err) {
			return "", newLookupError(CategoryTimeout, "response timeout", err)
		}
		return "", newLookupError(CategoryBadData, "failed to decode response", err)
	}

	if body.RazaoSocial == nil || strings.TrimSpace(*body.RazaoSocial) == "" {
		return NotInformed, nil
	}
	return strings.TrimSpace(*body.RazaoSocial), nil
}

func statusError(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return newLookupError(CategoryNotFound, "company not found", nil)
	case status == http.StatusTooManyRequests:
		return newLookupError(CategoryRateLimited, "rate limit exceeded", nil)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return newLookupError(CategoryTimeout, fmt.Sprintf("registry timed out: %d", status), nil)
	case status >= 500:
		return newLookupError(CategoryOutage, fmt.Sprintf("registry unavailable: %d", status), nil)
	default:
		return newLookupError(CategoryBadData, fmt.Sprintf("unexpected status: %d", status), nil)
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
