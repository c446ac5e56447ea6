package acquire

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hazyhaar/siteintel/urlguard"
)

// Renderer turns a URL into page text through some rendering
// capability the plain fetcher lacks: a reader proxy, a headless
// browser. Implementations must honor ctx cancellation.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ReaderProxy renders through an HTTP reader endpoint that takes the
// target URL as a path suffix and answers with extracted plain text,
// in the style of r.jina.ai.
type ReaderProxy struct {
	base   string
	client *http.Client
}

// NewReaderProxy creates a ReaderProxy for the given endpoint base.
func NewReaderProxy(baseURL string, timeout time.Duration) *ReaderProxy {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReaderProxy{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Render fetches the reader-proxy view of url.
func (p *ReaderProxy) Render(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/"+url, nil)
	if err != nil {
		return "", fmt.Errorf("acquire: build proxy request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("acquire: proxy request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("acquire: proxy returned status %d", resp.StatusCode)
	}
	body, err := urlguard.LimitedReadAll(resp.Body, urlguard.MaxResponseBody)
	if err != nil {
		return "", fmt.Errorf("acquire: read proxy response: %w", err)
	}
	return string(body), nil
}
