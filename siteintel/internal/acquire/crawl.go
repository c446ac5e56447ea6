package acquire

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/hazyhaar/siteintel/profile"
	"github.com/hazyhaar/siteintel/siteintel/internal/fetch"
	"github.com/hazyhaar/siteintel/siteintel/internal/normalize"
)

// detailKeywords mark pages whose structured inventory (services,
// fleet, menu items, staff, prices) deserves the larger character
// share of the aggregate.
var detailKeywords = []string{"fleet", "menu", "service", "team", "pricing", "price"}

type crawledPage struct {
	url   string
	label string
	text  string
}

// crawl is strategy three: discover candidate pages, fetch them
// concurrently under the fan-out bound, and assemble the labelled
// aggregate under the total budget. Pages that fail or come back thin
// are dropped silently; the aggregate is judged as a whole.
func (o *Orchestrator) crawl(ctx context.Context, req Request) (*Aggregate, string) {
	pages, err := o.discoverer.Discover(ctx, req.SeedURL)
	if err != nil {
		return nil, err.Error()
	}
	if len(pages) > req.MaxPages {
		pages = pages[:req.MaxPages]
	}

	results := make([]crawledPage, len(pages))
	sem := make(chan struct{}, req.MaxPages)
	var wg sync.WaitGroup
	for i, p := range pages {
		wg.Add(1)
		go func(i int, pageURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pctx, cancel := context.WithTimeout(ctx, o.cfg.PerPageTimeout)
			defer cancel()
			res, err := o.fetcher.Fetch(pctx, pageURL)
			if err != nil || res.Status != fetch.StatusSuccess {
				return
			}
			content, err := normalize.Normalize(res.Body)
			if err != nil || content.MainText == "" {
				return
			}
			results[i] = crawledPage{url: pageURL, label: labelFor(pageURL, req.SeedURL), text: content.MainText}
		}(i, p.URL)
	}
	wg.Wait()

	agg := o.assemble(results, req)
	if len(agg.Text) < o.cfg.MinContentLen {
		if ctx.Err() != nil {
			return nil, fmt.Sprintf("deadline expired with %d chars", len(agg.Text))
		}
		return nil, fmt.Sprintf("aggregate below floor (%d chars)", len(agg.Text))
	}
	return agg, ""
}

// assemble concatenates crawled pages in discovery order, each capped
// at its per-page share, the whole capped at TotalCharBudget.
func (o *Orchestrator) assemble(results []crawledPage, req Request) *Aggregate {
	agg := &Aggregate{Method: profile.MethodCrawl}
	var sb strings.Builder
	for _, r := range results {
		if r.text == "" {
			continue
		}
		share := req.PerPageCharBudget / 2
		if r.label == "detail" || r.label == "seed" {
			share = req.PerPageCharBudget
		}
		remaining := req.TotalCharBudget - sb.Len()
		if remaining <= 0 {
			break
		}
		if share > remaining {
			share = remaining
		}
		header := fmt.Sprintf("## Page: %s [%s]\n", r.url, r.label)
		if len(header) >= share {
			break
		}
		body := truncate(r.text, share-len(header))
		sb.WriteString(header)
		sb.WriteString(body)
		sb.WriteString("\n\n")
		agg.Pages = append(agg.Pages, PageStat{URL: r.url, Label: r.label, Chars: len(body)})
	}
	agg.Text = truncate(strings.TrimSpace(sb.String()), req.TotalCharBudget)
	return agg
}

// labelFor classifies a page: the seed URL itself (wherever its path
// points), then inventory-bearing paths as detail pages, then info.
func labelFor(rawURL, seedURL string) string {
	if equalURL(rawURL, seedURL) {
		return "seed"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "info"
	}
	path := strings.ToLower(u.Path)
	if path == "" || path == "/" {
		return "seed"
	}
	for _, kw := range detailKeywords {
		if strings.Contains(path, kw) {
			return "detail"
		}
	}
	return "info"
}

// equalURL compares URLs up to case and a trailing slash, matching the
// normalization discovery applies to its candidates.
func equalURL(a, b string) bool {
	trim := func(s string) string {
		return strings.TrimSuffix(strings.ToLower(s), "/")
	}
	return trim(a) == trim(b)
}
