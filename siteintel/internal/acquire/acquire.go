// Package acquire turns a seed URL into aggregated page text through an
// escalation ladder: direct fetch, then a rendering proxy for
// bot-walled or script-only sites, then a bounded multi-page crawl.
// Each strategy runs at most once per invocation.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hazyhaar/siteintel/profile"
	"github.com/hazyhaar/siteintel/siteintel/internal/discover"
	"github.com/hazyhaar/siteintel/siteintel/internal/fetch"
	"github.com/hazyhaar/siteintel/siteintel/internal/normalize"
)

// ErrAcquisitionFailed means every strategy was exhausted without
// producing enough content.
var ErrAcquisitionFailed = errors.New("acquire: all acquisition strategies failed")

// Request parameterizes a single acquisition. Zero fields take
// defaults.
type Request struct {
	SeedURL string
	// MaxPages caps crawl fan-out. Default: 12.
	MaxPages int
	// PerPageCharBudget is the character share of a detail page in the
	// aggregate; other pages get half. Default: 4000.
	PerPageCharBudget int
	// TotalCharBudget caps the aggregate. Default: 24000.
	TotalCharBudget int
	// Deadline bounds the whole acquisition. Default and ceiling: 60s.
	Deadline time.Duration
}

func (r *Request) defaults() {
	if r.MaxPages <= 0 || r.MaxPages > 12 {
		r.MaxPages = 12
	}
	if r.PerPageCharBudget <= 0 {
		r.PerPageCharBudget = 4000
	}
	if r.TotalCharBudget <= 0 {
		r.TotalCharBudget = 24000
	}
	if r.Deadline <= 0 || r.Deadline > 60*time.Second {
		r.Deadline = 60 * time.Second
	}
}

// PageStat records one page's contribution to the aggregate.
type PageStat struct {
	URL   string
	Label string
	Chars int
}

// Aggregate is the ordered, labelled concatenation handed to the
// extractor. Method records which strategy produced it.
type Aggregate struct {
	Text   string
	Method profile.Method
	Pages  []PageStat
}

// Fetcher fetches one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Discoverer enumerates candidate pages for the crawl strategy.
type Discoverer interface {
	Discover(ctx context.Context, seedURL string) ([]discover.Page, error)
}

// Config configures the orchestrator.
type Config struct {
	// MinContentLen is the floor below which a strategy's output is
	// rejected as too thin. Default: 200.
	MinContentLen int
	// PerPageTimeout bounds each crawl page fetch. Default: 10s.
	PerPageTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MinContentLen <= 0 {
		c.MinContentLen = 200
	}
	if c.PerPageTimeout <= 0 {
		c.PerPageTimeout = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Orchestrator runs the strategy ladder. A nil Renderer disables the
// proxy strategy.
type Orchestrator struct {
	fetcher    Fetcher
	discoverer Discoverer
	renderer   Renderer
	cfg        Config
	logger     *slog.Logger
}

// New creates an Orchestrator.
func New(f Fetcher, d Discoverer, r Renderer, cfg Config) *Orchestrator {
	cfg.defaults()
	return &Orchestrator{fetcher: f, discoverer: d, renderer: r, cfg: cfg, logger: cfg.Logger}
}

// Acquire runs the ladder until one strategy yields content at or
// above the floor. On deadline expiry a partial crawl aggregate is
// returned when it meets the floor; otherwise ErrAcquisitionFailed.
func (o *Orchestrator) Acquire(ctx context.Context, req Request) (*Aggregate, error) {
	req.defaults()
	ctx, cancel := context.WithTimeout(ctx, req.Deadline)
	defer cancel()
	log := o.logger.With("seed", req.SeedURL)

	var reasons []string

	if agg, reason := o.direct(ctx, req); agg != nil {
		log.Info("acquire: direct fetch succeeded", "chars", len(agg.Text))
		return agg, nil
	} else {
		reasons = append(reasons, "direct: "+reason)
	}

	if o.renderer == nil {
		reasons = append(reasons, "proxy: no renderer configured")
	} else if agg, reason := o.proxy(ctx, req); agg != nil {
		log.Info("acquire: rendering proxy succeeded", "chars", len(agg.Text))
		return agg, nil
	} else {
		reasons = append(reasons, "proxy: "+reason)
	}

	if agg, reason := o.crawl(ctx, req); agg != nil {
		log.Info("acquire: crawl succeeded", "pages", len(agg.Pages), "chars", len(agg.Text))
		return agg, nil
	} else {
		reasons = append(reasons, "crawl: "+reason)
	}

	return nil, fmt.Errorf("%w: %s", ErrAcquisitionFailed, strings.Join(reasons, "; "))
}

// direct is strategy one: fetch the seed and normalize it.
func (o *Orchestrator) direct(ctx context.Context, req Request) (*Aggregate, string) {
	res, err := o.fetcher.Fetch(ctx, req.SeedURL)
	if err != nil {
		return nil, err.Error()
	}
	if res.Status != fetch.StatusSuccess {
		return nil, fmt.Sprintf("status %s (http %d)", res.Status, res.HTTPStatus)
	}
	content, err := normalize.Normalize(res.Body)
	if err != nil {
		return nil, err.Error()
	}
	text := truncate(content.MainText, req.TotalCharBudget)
	if len(text) < o.cfg.MinContentLen {
		return nil, fmt.Sprintf("content below floor (%d chars)", len(text))
	}
	return &Aggregate{
		Text:   text,
		Method: profile.MethodDirect,
		Pages:  []PageStat{{URL: req.SeedURL, Label: "seed", Chars: len(text)}},
	}, ""
}

// proxy is strategy two: hand the seed to the renderer and strip any
// leaked markup from its output.
func (o *Orchestrator) proxy(ctx context.Context, req Request) (*Aggregate, string) {
	rendered, err := o.renderer.Render(ctx, req.SeedURL)
	if err != nil {
		return nil, err.Error()
	}
	text := truncate(normalize.StripTags(rendered), req.TotalCharBudget)
	if len(text) < o.cfg.MinContentLen {
		return nil, fmt.Sprintf("rendered content below floor (%d chars)", len(text))
	}
	return &Aggregate{
		Text:   text,
		Method: profile.MethodReaderProxy,
		Pages:  []PageStat{{URL: req.SeedURL, Label: "seed", Chars: len(text)}},
	}, ""
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
