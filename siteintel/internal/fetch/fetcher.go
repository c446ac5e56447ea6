// Package fetch performs single bounded HTTP GETs against business
// websites. All HTTP-level failure modes come back as a tagged Result;
// only network-level failures (DNS, TLS, context) surface as errors.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hazyhaar/siteintel/urlguard"
)

// Status classifies one fetch attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusBlocked Status = "blocked"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

// Result is the outcome of fetching one page.
type Result struct {
	URL        string
	Status     Status
	Body       string
	HTTPStatus int
}

// challengeMarkers are substrings (matched case-insensitively) that
// identify WAF interstitials and bot challenges even on HTTP 200.
var challengeMarkers = []string{
	"cf-browser-verification",
	"checking your browser",
	"just a moment",
	"attention required",
	"access denied",
	"unusual traffic",
	"captcha",
	"are you a robot",
}

// Config configures the fetcher.
type Config struct {
	// Timeout per request. Default: 15s.
	Timeout time.Duration
	// MaxBytes caps the response body. Default: 2MB.
	MaxBytes int64
	// MinBodyLen below which a 200 response is classified empty.
	// Default: 100.
	MinBodyLen int
	// UserAgent sent with requests. Default: a current desktop Chrome
	// profile — plain Go user agents get blocked outright by most WAFs.
	UserAgent string
	// URLValidator validates URLs before fetch and on every redirect.
	// Default: urlguard.ValidateURL.
	URLValidator func(string) error
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = urlguard.MaxResponseBody
	}
	if c.MinBodyLen <= 0 {
		c.MinBodyLen = 100
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	}
	if c.URLValidator == nil {
		c.URLValidator = urlguard.ValidateURL
	}
}

// Fetcher performs HTTP GETs with browser-profile headers.
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher with SSRF validation on redirects.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	validate := cfg.URLValidator
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				if err := validate(req.URL.String()); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Fetch retrieves url. Never returns an error for HTTP-level failure;
// those are classified into Result.Status. Network failures propagate.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	if err := f.config.URLValidator(url); err != nil {
		return nil, fmt.Errorf("fetch: URL blocked: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: http get: %w", err)
	}
	defer resp.Body.Close()

	result := &Result{URL: url, HTTPStatus: resp.StatusCode}

	if isBlockedStatus(resp.StatusCode) {
		result.Status = StatusBlocked
		return result, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Status = StatusError
		return result, nil
	}

	data, err := urlguard.LimitedReadAll(resp.Body, f.config.MaxBytes)
	if err != nil {
		// Oversized body — truncation handled upstream, treat the read
		// failure as an error result rather than a network error.
		result.Status = StatusError
		return result, nil
	}
	body := string(data)

	if hasChallengeMarker(body) {
		result.Status = StatusBlocked
		result.Body = body
		return result, nil
	}
	if len(strings.TrimSpace(body)) < f.config.MinBodyLen {
		result.Status = StatusEmpty
		result.Body = body
		return result, nil
	}

	result.Status = StatusSuccess
	result.Body = body
	return result, nil
}

func isBlockedStatus(code int) bool {
	return code == http.StatusForbidden || code == http.StatusTooManyRequests || code >= 500
}

func hasChallengeMarker(body string) bool {
	// Markers live near the top of interstitial pages; scanning a
	// bounded prefix keeps this cheap on large pages.
	probe := body
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	probe = strings.ToLower(probe)
	for _, m := range challengeMarkers {
		if strings.Contains(probe, m) {
			return true
		}
	}
	return false
}
