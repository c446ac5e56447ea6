// Package normalize turns raw page HTML into clean text for extraction.
// Boilerplate (scripts, nav, ads) is stripped, main content is selected
// by semantic landmarks, then known selectors, then a density fallback,
// and footer contact text is preserved before the footer is discarded.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Content is the normalizer output for one page.
type Content struct {
	// MainText is the cleaned main content, whitespace-collapsed.
	MainText string
	// FooterContact is footer text preserved because it matched a
	// contact signal (phone/email/street address). Already appended to
	// MainText; kept separately for diagnostics.
	FooterContact string
}

// boilerplateSelector matches nodes that never carry business content.
const boilerplateSelector = "script, style, noscript, iframe, svg, form, nav, aside, header"

// adSelector matches common ad and overlay containers.
const adSelector = ".advertisement, .ads, .ad-container, .cookie-banner, .cookie-consent, .popup, .modal, #cookie-notice"

// contentSelectors is the ordered list of likely main-content containers,
// tried after semantic landmarks and before the density fallback.
var contentSelectors = []string{
	"#content",
	".content",
	".main-content",
	"#main",
	".page-content",
	".entry-content",
	".site-content",
}

// Normalize extracts clean text from raw page HTML.
func Normalize(rawHTML string) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("normalize: parse html: %w", err)
	}

	// Footer contact data is disproportionately likely to live in the
	// footer we are about to discard — rescue it first.
	footer := footerContactText(doc)

	doc.Find(boilerplateSelector).Remove()
	doc.Find(adSelector).Remove()

	main := selectMainText(doc)

	text := collapse(main)
	if footer != "" {
		footer = collapse(footer)
		text = strings.TrimSpace(text + "\n\n" + footer)
	}

	return &Content{MainText: text, FooterContact: footer}, nil
}

// selectMainText picks the main content region. Order: semantic
// landmarks, then the known selector list, then density-scored body.
func selectMainText(doc *goquery.Document) string {
	for _, sel := range append([]string{"main", "article"}, contentSelectors...) {
		var parts []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			t := strings.TrimSpace(s.Text())
			if len(t) >= 80 {
				parts = append(parts, t)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, "\n\n")
		}
	}

	// Fallback: footer stripped too (its contact text was already
	// rescued), then the densest remaining subtree.
	doc.Find("footer").Remove()
	body := doc.Find("body")
	if body.Length() == 0 {
		return strings.TrimSpace(doc.Text())
	}
	if best := densestText(body.Nodes[0]); best != "" {
		return best
	}
	return strings.TrimSpace(body.Text())
}

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// collapse normalizes whitespace: space runs to one space, 3+ blank
// lines to one blank line, trimmed lines.
func collapse(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = newlineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
