// Package browser renders pages through headless Chrome via Rod with
// stealth applied, for sites that serve real content only to a full
// browser. It implements the acquisition Renderer capability.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/siteintel/urlguard"
)

// Config configures the renderer.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// NavigateTimeout bounds navigation plus load wait. Default: 30s.
	NavigateTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Renderer holds one Chrome connection, lazily established on first
// render and shared across calls. Each render uses a fresh tab.
type Renderer struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// New creates a Renderer. Chrome is not launched until the first
// Render call.
func New(cfg Config) *Renderer {
	cfg.defaults()
	return &Renderer{cfg: cfg, logger: cfg.Logger}
}

// Render navigates a stealth tab to url and returns the page's visible
// text after load.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	if err := urlguard.ValidateURL(url); err != nil {
		return "", fmt.Errorf("browser: %w", err)
	}
	b, err := r.connect()
	if err != nil {
		return "", err
	}

	page, err := stealth.Page(b)
	if err != nil {
		return "", fmt.Errorf("browser: create tab: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, r.cfg.NavigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		return "", fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		r.logger.Warn("browser: wait load timeout", "url", url, "error", err)
	}

	res, err := page.Context(navCtx).Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", fmt.Errorf("browser: read page text: %w", err)
	}
	return res.Value.Str(), nil
}

// connect returns the shared browser, launching or dialing Chrome on
// first use.
func (r *Renderer) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return r.browser, nil
	}

	wsURL := r.cfg.RemoteURL
	if wsURL == "" {
		lnch := launcher.New().Headless(true)
		u, err := lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch chrome: %w", err)
		}
		r.lnch = lnch
		wsURL = u
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if r.lnch != nil {
			r.lnch.Kill()
			r.lnch = nil
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	r.browser = b
	r.logger.Info("browser: connected", "url", wsURL, "remote", r.cfg.RemoteURL != "")
	return b, nil
}

// Close disconnects from Chrome and kills a locally launched process.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.lnch != nil {
		r.lnch.Kill()
		r.lnch = nil
	}
	return err
}
