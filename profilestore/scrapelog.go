package profilestore

import (
	"context"
	"fmt"
	"time"
)

// ScrapeLogEntry records one pipeline invocation for an owner.
type ScrapeLogEntry struct {
	ID         string  `json:"id"`
	OwnerID    string  `json:"owner_id"`
	SeedURL    string  `json:"seed_url"`
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	PageCount  int     `json:"page_count"`
	Status     string  `json:"status"` // ok, degraded, failed
	Error      string  `json:"error,omitempty"`
	DurationMs int64   `json:"duration_ms"`
	CreatedAt  int64   `json:"created_at"`
}

// RecordScrape appends an audit entry. Failures are returned, not
// swallowed; the caller decides whether to log-and-continue.
func (s *Store) RecordScrape(ctx context.Context, e *ScrapeLogEntry) error {
	if e.ID == "" {
		e.ID = s.newID()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO scrape_log (id, owner_id, seed_url, method, confidence,
		page_count, status, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.SeedURL, e.Method, e.Confidence,
		e.PageCount, e.Status, e.Error, e.DurationMs, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("profilestore: record scrape: %w", err)
	}
	return nil
}

// ScrapeHistory returns recent scrape entries for an owner, newest first.
func (s *Store) ScrapeHistory(ctx context.Context, ownerID string, limit int) ([]*ScrapeLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, owner_id, seed_url, method, confidence, page_count,
		status, error, duration_ms, created_at
		FROM scrape_log WHERE owner_id = ?
		ORDER BY created_at DESC LIMIT ?`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("profilestore: scrape history: %w", err)
	}
	defer rows.Close()

	var entries []*ScrapeLogEntry
	for rows.Next() {
		var e ScrapeLogEntry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.SeedURL, &e.Method, &e.Confidence,
			&e.PageCount, &e.Status, &e.Error, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("profilestore: scan scrape log: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
