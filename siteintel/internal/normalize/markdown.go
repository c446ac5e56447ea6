package normalize

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

var stripPolicy = bluemonday.StrictPolicy()

// Markdown converts HTML to markdown with links preserved as
// [text](url), which discovery scans for navigation candidates.
// On conversion failure the fallback text is returned.
func Markdown(rawHTML, sourceURL, fallback string) string {
	if rawHTML == "" {
		return fallback
	}
	result, err := mdConverter.ConvertString(rawHTML, converter.WithDomain(sourceURL))
	if err != nil || strings.TrimSpace(result) == "" {
		return fallback
	}
	return strings.TrimSpace(result)
}

// StripTags removes all HTML markup from text. Reader-proxy output is
// nominally plain text but some proxies leak tags through.
func StripTags(s string) string {
	return collapse(stripPolicy.Sanitize(s))
}
