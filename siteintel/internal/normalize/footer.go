package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Three independent contact signals. Any single match preserves the
// entire footer text — partial extraction loses the surrounding context
// (labels, hours) that the extractor needs.
var (
	phoneSignal  = regexp.MustCompile(`\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]\d{4}`)
	emailSignal  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	streetSignal = regexp.MustCompile(`(?i)\b\d{1,5}\s+[A-Za-z][A-Za-z.\s]{1,40}\b(street|st\.?|avenue|ave\.?|road|rd\.?|boulevard|blvd\.?|drive|dr\.?|lane|ln\.?|way|suite|ste\.?|court|ct\.?)\b`)
)

// footerContactText returns the full text of any footer that carries a
// contact signal, joined across multiple footer nodes. Empty when no
// footer exists or none matches.
func footerContactText(doc *goquery.Document) string {
	var kept []string
	doc.Find("footer").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if hasContactSignal(text) {
			kept = append(kept, text)
		}
	})
	return strings.Join(kept, "\n")
}

func hasContactSignal(text string) bool {
	return phoneSignal.MatchString(text) ||
		emailSignal.MatchString(text) ||
		streetSignal.MatchString(text)
}
