// Package discover finds the subset of a business site worth fetching:
// sitemap entries first, then a robots-declared sitemap, then on-page
// navigation links, then static common-path guesses as a last resort.
// Cheap authoritative signals run first; noisy ones only when they fail.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/hazyhaar/siteintel/siteintel/internal/fetch"
	"github.com/hazyhaar/siteintel/urlguard"
)

// Source records which discovery tier produced a page.
type Source string

const (
	SourceSeed          Source = "seed"
	SourceSitemap       Source = "sitemap"
	SourceRobotsSitemap Source = "robots_sitemap"
	SourceNavLink       Source = "nav_link"
	SourceCommonPath    Source = "common_path"
)

// Page is one discovered candidate URL.
type Page struct {
	URL    string
	Source Source
}

// sitemapPaths are tried in order at the origin root.
var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap-index.xml"}

// commonPaths are static guesses unioned in when discovery yields ≤3
// candidates overall.
var commonPaths = []string{
	"/about", "/about-us", "/services", "/fleet", "/vehicles", "/menu",
	"/pricing", "/prices", "/team", "/staff", "/contact", "/contact-us",
	"/faq", "/gallery",
}

// relevanceKeywords keep a candidate past the final filter when its
// path contains any of them. The seed is kept unconditionally.
var relevanceKeywords = []string{
	"about", "service", "fleet", "vehicle", "menu", "price", "pricing",
	"team", "staff", "contact", "faq", "gallery", "location", "hour",
}

// Config configures discovery.
type Config struct {
	// MaxCandidates caps the pre-filter candidate set. Default: 20.
	MaxCandidates int
	// MaxPages caps the final page list. Default: 12.
	MaxPages int
	// CommonPathThreshold: common paths are unioned in when the
	// candidate count (seed included) is at or below this. Default: 3.
	CommonPathThreshold int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = 20
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 12
	}
	if c.CommonPathThreshold <= 0 {
		c.CommonPathThreshold = 3
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Fetcher is the page fetch dependency.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Discoverer enumerates candidate pages for a seed URL.
type Discoverer struct {
	fetcher Fetcher
	cfg     Config
	logger  *slog.Logger
}

// New creates a Discoverer.
func New(f Fetcher, cfg Config) *Discoverer {
	cfg.defaults()
	return &Discoverer{fetcher: f, cfg: cfg, logger: cfg.Logger}
}

// Discover returns the ordered, deduplicated, same-origin candidate
// pages for seedURL. The seed itself is always first. Tiers
// short-circuit: the first tier that yields a usable result wins.
func (d *Discoverer) Discover(ctx context.Context, seedURL string) ([]Page, error) {
	origin, err := originOf(seedURL)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	log := d.logger.With("seed", seedURL)

	set := newPageSet(seedURL, d.cfg.MaxCandidates)
	set.add(seedURL, SourceSeed)

	// Tier 1: sitemap at well-known paths.
	found := d.sitemapTier(ctx, origin, set)

	// Tier 2: robots.txt-declared sitemap.
	if !found {
		found = d.robotsTier(ctx, origin, set, log)
	}

	// Tier 3: on-page navigation links from the seed itself.
	if !found {
		d.navLinkTier(ctx, seedURL, origin, set, log)
	}

	// Tier 4: static guesses, only when discovery stayed thin.
	if set.len() <= d.cfg.CommonPathThreshold {
		for _, p := range commonPaths {
			set.add(origin+p, SourceCommonPath)
		}
	}

	pages := d.relevanceFilter(set.pages())
	log.Debug("discover: done", "candidates", set.len(), "selected", len(pages))
	return pages, nil
}

// relevanceFilter keeps the seed plus any candidate whose path contains
// a relevance keyword, capped at MaxPages.
func (d *Discoverer) relevanceFilter(pages []Page) []Page {
	out := make([]Page, 0, d.cfg.MaxPages)
	for _, p := range pages {
		if p.Source != SourceSeed && !isRelevantPath(p.URL) {
			continue
		}
		out = append(out, p)
		if len(out) >= d.cfg.MaxPages {
			break
		}
	}
	return out
}

func isRelevantPath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, kw := range relevanceKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

// originOf returns scheme://host for a seed URL.
func originOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid seed URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("seed URL missing scheme or host: %q", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// fetchBody retrieves a URL and returns its body when usable. Discovery
// accepts bodies below the fetcher's content floor — robots.txt and
// small sitemaps are legitimately tiny.
func (d *Discoverer) fetchBody(ctx context.Context, url string) (string, bool) {
	res, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", false
	}
	switch res.Status {
	case fetch.StatusSuccess, fetch.StatusEmpty:
		return res.Body, strings.TrimSpace(res.Body) != ""
	default:
		return "", false
	}
}

// pageSet is an ordered, deduplicating, same-origin candidate set.
type pageSet struct {
	seed  string
	cap   int
	seen  map[string]bool
	items []Page
}

func newPageSet(seed string, capacity int) *pageSet {
	return &pageSet{seed: seed, cap: capacity, seen: make(map[string]bool)}
}

// add appends a candidate unless it is cross-origin, malformed, a
// duplicate, or the set is full. Returns true when added.
func (s *pageSet) add(rawURL string, src Source) bool {
	if len(s.items) >= s.cap && src != SourceSeed {
		return false
	}
	if src != SourceSeed && !urlguard.SameOrigin(s.seed, rawURL) {
		return false
	}
	key, err := normalizeURL(rawURL)
	if err != nil {
		return false
	}
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.items = append(s.items, Page{URL: rawURL, Source: src})
	return true
}

func (s *pageSet) len() int      { return len(s.items) }
func (s *pageSet) pages() []Page { return s.items }

// normalizeURL produces the dedup key: lowercased scheme/host, fragment
// dropped, trailing slash stripped (except root).
func normalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}
