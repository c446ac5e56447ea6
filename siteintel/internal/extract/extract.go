package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/siteintel/oracle"
	"github.com/hazyhaar/siteintel/profile"
	"github.com/hazyhaar/siteintel/siteintel/internal/acquire"
)

const (
	baseConfidence    = 0.95
	missingFieldCost  = 0.15
	rawPreviewChars   = 500
	defaultInputChars = 24000
)

// ErrSchemaViolation marks an oracle answer that fails JSON parse or
// the required-field check. It is the only condition that earns the
// stronger-instruction retry; transport errors degrade immediately.
var ErrSchemaViolation = errors.New("extract: answer violates schema")

// Config configures the extractor.
type Config struct {
	// InputBudget caps the content characters sent to the oracle.
	// Default: 24000.
	InputBudget int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.InputBudget <= 0 {
		c.InputBudget = defaultInputChars
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Extractor runs schema-constrained extraction against an oracle.
type Extractor struct {
	oracle oracle.Client
	cfg    Config
	logger *slog.Logger
}

// New creates an Extractor.
func New(client oracle.Client, cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{oracle: client, cfg: cfg, logger: cfg.Logger}
}

// Extract produces a profile from aggregated content. It never returns
// an error: oracle failures and unparseable answers yield a degraded
// profile carrying a diagnostic and a content preview, so the caller
// can always persist what happened.
func (e *Extractor) Extract(ctx context.Context, agg *acquire.Aggregate, schema Schema) *profile.ExtractedProfile {
	p, err := e.tryExtract(ctx, agg.Text, schema, false)
	if errors.Is(err, ErrSchemaViolation) {
		e.logger.Warn("extract: schema violation, retrying with stronger instructions", "err", err)
		p2, err2 := e.tryExtract(ctx, agg.Text, schema, true)
		switch {
		case err2 == nil, errors.Is(err2, ErrSchemaViolation) && p2 != nil:
			// The retry answer is accepted as-is; a still-incomplete
			// answer is the confidence walk's problem, not a failure.
			p, err = p2, nil
		case p != nil:
			// Retry went worse than the first answer; keep the first.
			err = nil
		default:
			err = err2
		}
	}
	if err != nil {
		e.logger.Error("extract: extraction failed", "err", err)
		return e.degraded(agg, err)
	}
	p.ExtractionMethod = agg.Method
	p.Confidence = e.confidence(p, schema)
	return p
}

// tryExtract runs one oracle round trip and parses the answer. A
// parseable answer with empty required fields comes back non-nil
// alongside ErrSchemaViolation so the caller can fall back to it.
func (e *Extractor) tryExtract(ctx context.Context, content string, schema Schema, retry bool) (*profile.ExtractedProfile, error) {
	prompt := buildPrompt(schema, content, e.cfg.InputBudget, retry)
	answer, err := e.oracle.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extract: oracle call: %w", err)
	}
	var p profile.ExtractedProfile
	if err := json.Unmarshal([]byte(stripFence(answer)), &p); err != nil {
		return nil, fmt.Errorf("%w: parse oracle answer: %v", ErrSchemaViolation, err)
	}
	// The oracle must not plant failure-only fields into a successful
	// profile; these are set exclusively by degraded().
	p.Diagnostic = ""
	p.RawContentPreview = ""
	if missing := missingRequired(&p, schema); len(missing) > 0 {
		return &p, fmt.Errorf("%w: empty required fields %v", ErrSchemaViolation, missing)
	}
	return &p, nil
}

// missingRequired lists the schema's required top-level fields that
// came back empty.
func missingRequired(p *profile.ExtractedProfile, schema Schema) []string {
	var missing []string
	for _, name := range schema.requiredTopLevel() {
		if fieldValue(p, name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// confidence starts from the base and walks the schema's required
// fields, charging each one that came back empty. Clamped to [0, 1].
func (e *Extractor) confidence(p *profile.ExtractedProfile, schema Schema) float64 {
	conf := baseConfidence - float64(len(missingRequired(p, schema)))*missingFieldCost
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

// fieldValue resolves a top-level scalar schema field name to its
// extracted value.
func fieldValue(p *profile.ExtractedProfile, name string) string {
	switch name {
	case "business_name":
		return p.BusinessName
	case "category":
		return p.Category
	case "description":
		return p.Description
	case "target_audience":
		return p.TargetAudience
	}
	return ""
}

// degraded builds the failure-shaped profile: zero confidence, the
// diagnostic, and enough raw content to debug the extraction by hand.
func (e *Extractor) degraded(agg *acquire.Aggregate, err error) *profile.ExtractedProfile {
	return &profile.ExtractedProfile{
		ExtractionMethod:  profile.MethodFailed,
		Confidence:        0,
		Diagnostic:        err.Error(),
		RawContentPreview: truncate(agg.Text, rawPreviewChars),
	}
}
