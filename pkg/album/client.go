package album

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "memorylane/pkg/errors"
	"memorylane/pkg/logger"
)

// Client fetches the public album page. It sends a realistic browser header
// set and keeps a second transport that does not follow redirects for the
// fallback path.
type Client struct {
	httpClient       *http.Client
	noRedirectClient *http.Client
	headers          map[string]string
	logger           logger.Logger
}

// NewClient creates a Client with the given timeout and redirect bound.
func NewClient(timeout time.Duration, maxRedirects int, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	checkRedirect := func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:       timeout,
			CheckRedirect: checkRedirect,
		},
		noRedirectClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		headers: map[string]string{
			"User-Agent":                userAgent,
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.5",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Fetch performs a single GET against url and returns the response body.
// If the redirect-following attempt fails, it retries once without
// following redirects and accepts that response when it looks usable.
// All failures are reported as fetch errors, which callers treat as "no
// photos found" rather than a fault.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	html, err := c.fetchOnce(ctx, c.httpClient, url, false)
	if err == nil {
		return html, nil
	}

	c.logger.WithError(err).WithField("url", url).Warn("fetch with redirects failed, retrying without redirect following")

	html, fallbackErr := c.fetchOnce(ctx, c.noRedirectClient, url, true)
	if fallbackErr != nil {
		c.logger.WithError(fallbackErr).WithField("url", url).Warn("fallback fetch failed")
		return "", fallbackErr
	}
	return html, nil
}

// fetchOnce performs one GET. In raw mode redirect statuses are accepted as
// long as the response carries a body.
func (c *Client) fetchOnce(ctx context.Context, client *http.Client, url string, raw bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperrors.New(apperrors.ErrorTypeFetch, fmt.Sprintf("failed to create request: %v", err))
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return "", apperrors.New(apperrors.ErrorTypeFetch, fmt.Sprintf("network error: %v", err))
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("album page fetched", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if !acceptableStatus(resp.StatusCode, raw) {
		return "", apperrors.NewWithCode(apperrors.ErrorTypeFetch,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewWithCode(apperrors.ErrorTypeFetch,
			fmt.Sprintf("failed to read response body: %v", err), resp.StatusCode)
	}
	if raw && len(body) == 0 {
		return "", apperrors.NewWithCode(apperrors.ErrorTypeFetch,
			"redirect response carried no body", resp.StatusCode)
	}

	return string(body), nil
}

func acceptableStatus(code int, raw bool) bool {
	if code >= 200 && code < 300 {
		return true
	}
	// raw mode keeps redirect responses so the extractor can scan them
	return raw && code >= 300 && code < 400
}
