package normalize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// densestText finds the subtree under root with the best content score:
// most text, least of it inside links. Subtrees that are mostly links
// are navigation and are skipped.
func densestText(root *html.Node) string {
	type candidate struct {
		text     string
		score    float64
		linkDens float64
	}
	var candidates []candidate

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isContainerTag(n.DataAtom) {
			text := collectText(n)
			if len(text) >= 120 {
				linkLen := len(collectLinkText(n))
				linkDens := float64(linkLen) / float64(len(text))
				candidates = append(candidates, candidate{
					text:     text,
					score:    float64(len(text)) * (1 - linkDens),
					linkDens: linkDens,
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	var best *candidate
	for i := range candidates {
		c := &candidates[i]
		if c.linkDens > 0.5 {
			continue // mostly links - probably navigation
		}
		if best == nil || c.score > best.score {
			best = c
		}
	}
	if best == nil {
		return ""
	}
	return best.text
}

func isContainerTag(a atom.Atom) bool {
	switch a {
	case atom.Div, atom.Section, atom.Td, atom.Body, atom.Main, atom.Article:
		return true
	}
	return false
}

// collectText extracts visible text from a subtree, space-joined.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collectLinkText extracts text that lives inside <a> elements only.
func collectLinkText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, inLink bool) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			inLink = true
		}
		if n.Type == html.TextNode && inLink {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inLink)
		}
	}
	walk(n, false)
	return sb.String()
}
