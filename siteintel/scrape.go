package siteintel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/siteintel/profile"
	"github.com/hazyhaar/siteintel/profilestore"
	"github.com/hazyhaar/siteintel/siteintel/internal/acquire"
	"github.com/hazyhaar/siteintel/siteintel/internal/extract"
	"github.com/hazyhaar/siteintel/urlguard"
)

// ScrapeRequest asks for one pipeline run against an owner's site.
type ScrapeRequest struct {
	OwnerID string `json:"owner_id"`
	URL     string `json:"url"`
	// Mode selects extraction depth: flat, deepdive (default), forensic.
	Mode string `json:"mode,omitempty"`
}

// ScrapeResult is the invocation envelope. Success is false only when
// the site could not be acquired at all; a degraded extraction still
// counts as success and carries its diagnostic inside Data.
type ScrapeResult struct {
	Success bool                      `json:"success"`
	Data    *profile.ExtractedProfile `json:"data,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// ScrapeBusinessWebsite runs the full pipeline: acquire, extract,
// merge, persist, audit. Request validation and merge validation
// failures return errors; acquisition exhaustion is reported inside
// the result envelope.
func (svc *Service) ScrapeBusinessWebsite(ctx context.Context, req ScrapeRequest) (*ScrapeResult, error) {
	if req.OwnerID == "" {
		return nil, fmt.Errorf("%w: owner_id required", ErrInvalidRequest)
	}
	if req.URL == "" {
		return nil, fmt.Errorf("%w: url required", ErrInvalidRequest)
	}
	if err := urlguard.ValidateURL(req.URL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.config.ScrapeDeadline)
	defer cancel()
	log := svc.logger.With("owner_id", req.OwnerID, "url", req.URL)
	start := time.Now()

	agg, err := svc.acquirer.Acquire(ctx, acquire.Request{
		SeedURL:           req.URL,
		MaxPages:          svc.config.MaxPages,
		PerPageCharBudget: svc.config.PerPageCharBudget,
		TotalCharBudget:   svc.config.TotalCharBudget,
		Deadline:          svc.config.ScrapeDeadline,
	})
	if err != nil {
		log.Warn("scrape: acquisition failed", "error", err, "duration", time.Since(start))
		svc.audit(ctx, req, &profilestore.ScrapeLogEntry{
			Status: "failed", Error: err.Error(), DurationMs: time.Since(start).Milliseconds(),
		})
		return &ScrapeResult{Success: false, Error: "site unreachable: " + err.Error()}, nil
	}

	extracted := svc.extractor.Extract(ctx, agg, extract.SchemaFor(extract.Mode(req.Mode)))
	if extracted.ExtractionMethod == profile.MethodFailed {
		log.Warn("scrape: extraction degraded", "diagnostic", extracted.Diagnostic)
		svc.audit(ctx, req, &profilestore.ScrapeLogEntry{
			Method: string(agg.Method), PageCount: len(agg.Pages),
			Status: "degraded", Error: extracted.Diagnostic,
			DurationMs: time.Since(start).Milliseconds(),
		})
		return &ScrapeResult{Success: true, Data: extracted}, nil
	}

	if err := svc.persist(ctx, req.OwnerID, extracted); err != nil {
		if errors.Is(err, profile.ErrInvalidProfile) {
			return nil, err
		}
		return nil, fmt.Errorf("siteintel: persist profile: %w", err)
	}

	svc.audit(ctx, req, &profilestore.ScrapeLogEntry{
		Method: string(extracted.ExtractionMethod), Confidence: extracted.Confidence,
		PageCount: len(agg.Pages), Status: "ok",
		DurationMs: time.Since(start).Milliseconds(),
	})
	log.Info("scrape: done", "method", extracted.ExtractionMethod,
		"confidence", extracted.Confidence, "pages", len(agg.Pages),
		"duration", time.Since(start))
	return &ScrapeResult{Success: true, Data: extracted}, nil
}

// persist merges the extraction into the stored profile: read once,
// merge, write once.
func (svc *Service) persist(ctx context.Context, ownerID string, extracted *profile.ExtractedProfile) error {
	existing, err := svc.store.GetProfile(ctx, ownerID)
	if err != nil {
		return err
	}
	merged, err := profile.Merge(existing, extracted.ToStored())
	if err != nil {
		return err
	}
	if existing == nil {
		_, err = svc.store.CreateProfile(ctx, ownerID, merged)
	} else {
		_, err = svc.store.UpdateProfile(ctx, ownerID, merged)
	}
	return err
}

// audit records a scrape_log entry; failures are logged, never fatal.
func (svc *Service) audit(ctx context.Context, req ScrapeRequest, e *profilestore.ScrapeLogEntry) {
	e.OwnerID = req.OwnerID
	e.SeedURL = req.URL
	if err := svc.store.RecordScrape(ctx, e); err != nil {
		svc.logger.Error("scrape: audit entry failed", "owner_id", req.OwnerID, "error", err)
	}
}

// GetProfile returns the stored profile for an owner.
func (svc *Service) GetProfile(ctx context.Context, ownerID string) (*profile.StoredProfile, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner_id required", ErrInvalidRequest)
	}
	p, err := svc.store.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// ScrapeHistory returns recent scrape audit entries for an owner.
func (svc *Service) ScrapeHistory(ctx context.Context, ownerID string, limit int) ([]*profilestore.ScrapeLogEntry, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner_id required", ErrInvalidRequest)
	}
	return svc.store.ScrapeHistory(ctx, ownerID, limit)
}

// PreviewMerge shows what the stored profile would become if incoming
// were merged, without persisting anything.
func (svc *Service) PreviewMerge(ctx context.Context, ownerID string, incoming *profile.ExtractedProfile) (*profile.StoredProfile, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner_id required", ErrInvalidRequest)
	}
	existing, err := svc.store.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return profile.Merge(existing, incoming.ToStored())
}
