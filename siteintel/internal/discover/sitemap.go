package discover

import (
	"context"
	"encoding/xml"
	"strings"
)

type sitemapURLSet struct {
	URLs []sitemapLoc `xml:"url"`
}

type sitemapIndex struct {
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// maxChildSitemaps bounds how many child sitemaps of an index file get
// fetched. One level of recursion only.
const maxChildSitemaps = 3

// sitemapTier tries the well-known sitemap paths in order and adds the
// entries of the first one that parses. Returns true when any entry
// was added.
func (d *Discoverer) sitemapTier(ctx context.Context, origin string, set *pageSet) bool {
	for _, path := range sitemapPaths {
		body, ok := d.fetchBody(ctx, origin+path)
		if !ok {
			continue
		}
		if d.addSitemapEntries(ctx, body, set, SourceSitemap, true) {
			return true
		}
	}
	return false
}

// addSitemapEntries parses body as either a urlset or a sitemapindex
// and adds its locations. For an index, child sitemaps are fetched and
// parsed one level deep when recurse is set.
func (d *Discoverer) addSitemapEntries(ctx context.Context, body string, set *pageSet, src Source, recurse bool) bool {
	added := false

	var urls sitemapURLSet
	if err := xml.Unmarshal([]byte(body), &urls); err == nil && len(urls.URLs) > 0 {
		for _, u := range urls.URLs {
			if set.add(strings.TrimSpace(u.Loc), src) {
				added = true
			}
		}
		return added
	}

	if !recurse {
		return false
	}
	var index sitemapIndex
	if err := xml.Unmarshal([]byte(body), &index); err != nil || len(index.Sitemaps) == 0 {
		return false
	}
	children := index.Sitemaps
	if len(children) > maxChildSitemaps {
		children = children[:maxChildSitemaps]
	}
	for _, child := range children {
		childBody, ok := d.fetchBody(ctx, strings.TrimSpace(child.Loc))
		if !ok {
			continue
		}
		if d.addSitemapEntries(ctx, childBody, set, src, false) {
			added = true
		}
	}
	return added
}
