// Package siteintel is the website intelligence service: given a
// business owner's site URL, it acquires the site's content, extracts
// a structured business profile through an oracle, and merges the
// result into the owner's stored profile without ever losing data a
// previous scrape found.
package siteintel

import (
	"context"
	"log/slog"
	"time"

	"github.com/hazyhaar/siteintel/oracle"
	"github.com/hazyhaar/siteintel/profile"
	"github.com/hazyhaar/siteintel/profilestore"
	"github.com/hazyhaar/siteintel/siteintel/internal/acquire"
	"github.com/hazyhaar/siteintel/siteintel/internal/discover"
	"github.com/hazyhaar/siteintel/siteintel/internal/extract"
	"github.com/hazyhaar/siteintel/siteintel/internal/fetch"
)

// Store abstracts the profile store for testability.
type Store interface {
	GetProfile(ctx context.Context, ownerID string) (*profile.StoredProfile, error)
	CreateProfile(ctx context.Context, ownerID string, p *profile.StoredProfile) (*profile.StoredProfile, error)
	UpdateProfile(ctx context.Context, ownerID string, p *profile.StoredProfile) (*profile.StoredProfile, error)
	RecordScrape(ctx context.Context, e *profilestore.ScrapeLogEntry) error
	ScrapeHistory(ctx context.Context, ownerID string, limit int) ([]*profilestore.ScrapeLogEntry, error)
}

// Acquirer abstracts the acquisition orchestrator.
type Acquirer interface {
	Acquire(ctx context.Context, req acquire.Request) (*acquire.Aggregate, error)
}

// Extractor abstracts the structured extractor.
type Extractor interface {
	Extract(ctx context.Context, agg *acquire.Aggregate, schema extract.Schema) *profile.ExtractedProfile
}

// Service is the main siteintel orchestrator.
type Service struct {
	store     Store
	acquirer  Acquirer
	extractor Extractor
	renderer  acquire.Renderer
	logger    *slog.Logger
	config    *Config
}

// ServiceOption customizes Service construction.
type ServiceOption func(*Service)

// WithRenderer enables the rendering-proxy acquisition strategy.
// Ignored when WithAcquirer replaces the orchestrator outright.
func WithRenderer(r acquire.Renderer) ServiceOption {
	return func(s *Service) { s.renderer = r }
}

// WithReaderProxy enables the rendering-proxy strategy through an HTTP
// reader endpoint (target URL appended to baseURL, plain text back).
func WithReaderProxy(baseURL string, timeout time.Duration) ServiceOption {
	return func(s *Service) { s.renderer = acquire.NewReaderProxy(baseURL, timeout) }
}

// WithAcquirer replaces the acquisition orchestrator.
func WithAcquirer(a Acquirer) ServiceOption {
	return func(s *Service) { s.acquirer = a }
}

// WithExtractor replaces the extractor.
func WithExtractor(e Extractor) ServiceOption {
	return func(s *Service) { s.extractor = e }
}

// New creates a siteintel Service wired with the real pipeline stages.
func New(store Store, client oracle.Client, cfg *Config, logger *slog.Logger, opts ...ServiceOption) *Service {
	if cfg == nil {
		cfg = defaultConfig()
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	svc := &Service{store: store, logger: logger, config: cfg}
	for _, opt := range opts {
		opt(svc)
	}

	if svc.acquirer == nil {
		f := fetch.New(cfg.Fetch)
		dcfg := cfg.Discover
		dcfg.MaxPages = cfg.MaxPages
		dcfg.Logger = logger
		d := discover.New(f, dcfg)
		acfg := cfg.Acquire
		acfg.Logger = logger
		svc.acquirer = acquire.New(f, d, svc.renderer, acfg)
	}
	if svc.extractor == nil {
		ecfg := cfg.Extract
		ecfg.InputBudget = cfg.TotalCharBudget
		ecfg.Logger = logger
		svc.extractor = extract.New(client, ecfg)
	}
	return svc
}
