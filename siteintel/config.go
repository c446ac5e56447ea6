package siteintel

import (
	"time"

	"github.com/hazyhaar/siteintel/siteintel/internal/acquire"
	"github.com/hazyhaar/siteintel/siteintel/internal/discover"
	"github.com/hazyhaar/siteintel/siteintel/internal/extract"
	"github.com/hazyhaar/siteintel/siteintel/internal/fetch"
)

// Config configures the Service and its pipeline stages.
type Config struct {
	// ScrapeDeadline bounds one whole pipeline run. Default: 60s.
	ScrapeDeadline time.Duration

	// MaxPages caps crawl fan-out. Default: 12.
	MaxPages int
	// PerPageCharBudget is a detail page's share of the aggregate.
	// Default: 4000.
	PerPageCharBudget int
	// TotalCharBudget caps the aggregate. Default: 24000.
	TotalCharBudget int

	Fetch    fetch.Config
	Discover discover.Config
	Acquire  acquire.Config
	Extract  extract.Config
}

func defaultConfig() *Config {
	c := &Config{}
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.ScrapeDeadline <= 0 {
		c.ScrapeDeadline = 60 * time.Second
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 12
	}
	if c.PerPageCharBudget <= 0 {
		c.PerPageCharBudget = 4000
	}
	if c.TotalCharBudget <= 0 {
		c.TotalCharBudget = 24000
	}
}
