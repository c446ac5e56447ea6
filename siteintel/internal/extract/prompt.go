package extract

import (
	"fmt"
	"strings"
)

const promptInstructions = `You extract structured business data from website text.

Rules:
- Use the EXACT names and wording found in the text. Do not paraphrase
  service names, prices, or the business name.
- Search ALL sections of the provided text, including page footers and
  pages labelled [detail] or [info]. Contact details often appear only
  in footers.
- A geographic service radius (for example "within 30 miles of
  Austin") is a service_area, never a street address.
- Omit fields the text does not support. Never invent values.
- Respond with a single JSON object matching the field list below.
  No prose, no explanation, no markdown fence.

Fields:
%s`

const retryInstructions = `
Your previous answer did not parse as a single valid JSON object.
Respond again with ONLY the JSON object. The first character of your
answer must be { and the last must be }.`

// buildPrompt assembles the extraction prompt: the fixed instruction
// block, the schema field list, and the content truncated to the
// oracle input budget.
func buildPrompt(schema Schema, content string, budget int, retry bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, promptInstructions, schema.Describe())
	if retry {
		sb.WriteString(retryInstructions)
	}
	sb.WriteString("\n\nWebsite text:\n\n")
	sb.WriteString(truncate(content, budget))
	return sb.String()
}

// stripFence removes a markdown code fence wrapping a JSON answer, a
// habit some models keep despite instructions.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
