package profilestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hazyhaar/siteintel/profile"
)

// GetProfile retrieves the profile for an owner, or nil if none exists.
func (s *Store) GetProfile(ctx context.Context, ownerID string) (*profile.StoredProfile, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, owner_id, business_name, category, description, target_audience,
		location_json, contact_json, services_json, credentials_json, social_json,
		attributes_json, created_at, updated_at
		FROM profiles WHERE owner_id = ?`, ownerID)
	return scanProfile(row)
}

// CreateProfile inserts a fresh profile for an owner. The owner must not
// already have one (UNIQUE on owner_id enforces this).
func (s *Store) CreateProfile(ctx context.Context, ownerID string, p *profile.StoredProfile) (*profile.StoredProfile, error) {
	now := time.Now().UnixMilli()
	stored := *p
	stored.ID = s.newID()
	stored.OwnerID = ownerID
	stored.CreatedAt = now
	stored.UpdatedAt = now

	cols, err := marshalNested(&stored)
	if err != nil {
		return nil, err
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO profiles (id, owner_id, business_name, category, description,
		target_audience, location_json, contact_json, services_json, credentials_json,
		social_json, attributes_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.OwnerID, stored.BusinessName, stored.Category,
		stored.Description, stored.TargetAudience,
		cols.location, cols.contact, cols.services, cols.credentials,
		cols.social, cols.attributes, stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("profilestore: insert: %w", err)
	}
	return &stored, nil
}

// UpdateProfile replaces the stored profile for an owner with the merged
// record. Called exactly once per pipeline invocation, post-merge.
func (s *Store) UpdateProfile(ctx context.Context, ownerID string, p *profile.StoredProfile) (*profile.StoredProfile, error) {
	stored := *p
	stored.OwnerID = ownerID
	stored.UpdatedAt = time.Now().UnixMilli()

	cols, err := marshalNested(&stored)
	if err != nil {
		return nil, err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE profiles SET business_name=?, category=?, description=?,
		target_audience=?, location_json=?, contact_json=?, services_json=?,
		credentials_json=?, social_json=?, attributes_json=?, updated_at=?
		WHERE owner_id=?`,
		stored.BusinessName, stored.Category, stored.Description, stored.TargetAudience,
		cols.location, cols.contact, cols.services, cols.credentials,
		cols.social, cols.attributes, stored.UpdatedAt, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("profilestore: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("profilestore: rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("profilestore: no profile for owner %q", ownerID)
	}
	return s.GetProfile(ctx, ownerID)
}

type nestedCols struct {
	location, contact, services, credentials, social, attributes string
}

func marshalNested(p *profile.StoredProfile) (*nestedCols, error) {
	var c nestedCols
	for _, f := range []struct {
		dst *string
		src any
	}{
		{&c.location, p.Location},
		{&c.contact, p.Contact},
		{&c.services, orEmptyArray(p.Services)},
		{&c.credentials, orEmptyArray(p.Credentials)},
		{&c.social, orEmptyArray(p.SocialLinks)},
		{&c.attributes, orEmptyArray(p.CustomAttributes)},
	} {
		data, err := json.Marshal(f.src)
		if err != nil {
			return nil, fmt.Errorf("profilestore: marshal: %w", err)
		}
		*f.dst = string(data)
	}
	return &c, nil
}

func orEmptyArray[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanProfile(row *sql.Row) (*profile.StoredProfile, error) {
	var p profile.StoredProfile
	var location, contact, services, credentials, social, attributes string
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.BusinessName, &p.Category, &p.Description,
		&p.TargetAudience, &location, &contact, &services, &credentials,
		&social, &attributes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profilestore: scan: %w", err)
	}

	for _, f := range []struct {
		raw string
		dst any
	}{
		{location, &p.Location},
		{contact, &p.Contact},
		{services, &p.Services},
		{credentials, &p.Credentials},
		{social, &p.SocialLinks},
		{attributes, &p.CustomAttributes},
	} {
		if f.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("profilestore: unmarshal: %w", err)
		}
	}
	return &p, nil
}
