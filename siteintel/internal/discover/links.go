package discover

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hazyhaar/siteintel/siteintel/internal/normalize"
)

// markdownLink matches [text](url) produced by the markdown rendering
// of the seed page. Catches links that goquery misses when the HTML is
// malformed enough to confuse the parser.
var markdownLink = regexp.MustCompile(`\[[^\]]+\]\(([^)\s]+)\)`)

// navLinkTier extracts candidate links from the seed page itself:
// every anchor href via the DOM, plus markdown-rendered links as a
// second net. Relative URLs are resolved against the seed.
func (d *Discoverer) navLinkTier(ctx context.Context, seedURL, origin string, set *pageSet, log *slog.Logger) {
	body, ok := d.fetchBody(ctx, seedURL)
	if !ok {
		log.Debug("discover: seed page not fetchable for link extraction")
		return
	}
	base, err := url.Parse(seedURL)
	if err != nil {
		return
	}

	for _, href := range anchorHrefs(body) {
		if abs, ok := resolveLink(base, href); ok {
			set.add(abs, SourceNavLink)
		}
	}

	md := normalize.Markdown(body, origin, "")
	for _, m := range markdownLink.FindAllStringSubmatch(md, -1) {
		if abs, ok := resolveLink(base, m[1]); ok {
			set.add(abs, SourceNavLink)
		}
	}
}

// anchorHrefs returns every a[href] value in document order.
func anchorHrefs(rawHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// resolveLink makes href absolute against base and rejects anchors,
// mailto/tel pseudo-links, and anything that is not plain http(s).
func resolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}
