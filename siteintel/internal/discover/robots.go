package discover

import (
	"bufio"
	"context"
	"log/slog"
	"strings"
)

// robotsTier reads robots.txt, follows any Sitemap directive, and adds
// its entries. Disallow rules are surfaced in the log but not enforced:
// this pipeline acts on behalf of the site owner, who asked for the
// scrape. Returns true when any sitemap entry was added.
func (d *Discoverer) robotsTier(ctx context.Context, origin string, set *pageSet, log *slog.Logger) bool {
	body, ok := d.fetchBody(ctx, origin+"/robots.txt")
	if !ok {
		return false
	}
	sitemaps, disallows := parseRobots(body)
	if len(disallows) > 0 {
		log.Warn("discover: robots.txt declares disallow rules",
			"count", len(disallows), "rules", strings.Join(disallows, " "))
	}

	added := false
	for _, sm := range sitemaps {
		smBody, ok := d.fetchBody(ctx, sm)
		if !ok {
			continue
		}
		if d.addSitemapEntries(ctx, smBody, set, SourceRobotsSitemap, true) {
			added = true
		}
	}
	return added
}

// parseRobots extracts Sitemap and Disallow directive values. Field
// names are case-insensitive per the robots.txt convention.
func parseRobots(body string) (sitemaps, disallows []string) {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		field, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "sitemap":
			if value != "" {
				sitemaps = append(sitemaps, value)
			}
		case "disallow":
			if value != "" && value != "/" {
				disallows = append(disallows, value)
			}
		}
	}
	return sitemaps, disallows
}
