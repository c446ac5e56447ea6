package profile

// MergeStrategy selects how one profile field reconciles during a merge.
type MergeStrategy string

const (
	// Overwrite: incoming value wins only if non-empty.
	Overwrite MergeStrategy = "overwrite"
	// ShallowMerge: nested scalar group merged key-by-key, incoming
	// non-empty keys win.
	ShallowMerge MergeStrategy = "shallowMerge"
	// UnionByKey: keyed array union — matches update, new keys append,
	// existing keys are never removed.
	UnionByKey MergeStrategy = "unionByKey"
)

// FieldRule binds one profile field to its merge strategy. The apply
// closure carries the typed access; the descriptor table is the single
// place a new field gets a policy.
type FieldRule struct {
	Key      string
	Strategy MergeStrategy
	apply    func(dst, src *StoredProfile)
}

// Rules is the full descriptor table for StoredProfile.
var Rules = []FieldRule{
	{"business_name", Overwrite, func(d, s *StoredProfile) { overwrite(&d.BusinessName, s.BusinessName) }},
	{"category", Overwrite, func(d, s *StoredProfile) { overwrite(&d.Category, s.Category) }},
	{"description", Overwrite, func(d, s *StoredProfile) { overwrite(&d.Description, s.Description) }},
	{"target_audience", Overwrite, func(d, s *StoredProfile) { overwrite(&d.TargetAudience, s.TargetAudience) }},
	{"location", ShallowMerge, func(d, s *StoredProfile) {
		overwrite(&d.Location.Street, s.Location.Street)
		overwrite(&d.Location.City, s.Location.City)
		overwrite(&d.Location.Region, s.Location.Region)
		overwrite(&d.Location.PostalCode, s.Location.PostalCode)
		overwrite(&d.Location.Country, s.Location.Country)
		overwrite(&d.Location.ServiceArea, s.Location.ServiceArea)
	}},
	{"contact", ShallowMerge, func(d, s *StoredProfile) {
		overwrite(&d.Contact.Phone, s.Contact.Phone)
		overwrite(&d.Contact.Email, s.Contact.Email)
		overwrite(&d.Contact.Website, s.Contact.Website)
		overwrite(&d.Contact.BookingURL, s.Contact.BookingURL)
	}},
	{"services", UnionByKey, func(d, s *StoredProfile) {
		d.Services = unionByKey(d.Services, s.Services,
			func(v Service) string { return v.Name },
			func(old *Service, in Service) {
				overwrite(&old.Description, in.Description)
				overwrite(&old.Price, in.Price)
				overwrite(&old.Quantity, in.Quantity)
			})
	}},
	{"credentials", UnionByKey, func(d, s *StoredProfile) {
		d.Credentials = unionByKey(d.Credentials, s.Credentials,
			func(v Credential) string { return v.Name },
			func(old *Credential, in Credential) {
				overwrite(&old.Issuer, in.Issuer)
				overwrite(&old.Year, in.Year)
			})
	}},
	{"social_links", UnionByKey, func(d, s *StoredProfile) {
		d.SocialLinks = unionByKey(d.SocialLinks, s.SocialLinks,
			func(v SocialLink) string { return v.Platform },
			func(old *SocialLink, in SocialLink) {
				overwrite(&old.URL, in.URL)
			})
	}},
	{"custom_attributes", UnionByKey, func(d, s *StoredProfile) {
		d.CustomAttributes = unionByKey(d.CustomAttributes, s.CustomAttributes,
			func(v Attribute) string { return v.Label },
			func(old *Attribute, in Attribute) {
				overwrite(&old.Value, in.Value)
			})
	}},
}

// Merge reconciles incoming (typically a partial scrape result) against
// existing. A nil existing validates incoming as a fresh record. The
// merge never deletes: existing keyed-array items whose keys are absent
// from incoming survive untouched, so a later partial scrape cannot
// erase manually curated data.
func Merge(existing, incoming *StoredProfile) (*StoredProfile, error) {
	if incoming == nil {
		return nil, errInvalid("incoming profile is required")
	}
	if existing == nil {
		if err := ValidateNew(incoming); err != nil {
			return nil, err
		}
		fresh := *incoming
		fresh.Services = cloneSlice(incoming.Services)
		fresh.Credentials = cloneSlice(incoming.Credentials)
		fresh.SocialLinks = cloneSlice(incoming.SocialLinks)
		fresh.CustomAttributes = cloneSlice(incoming.CustomAttributes)
		return &fresh, nil
	}

	if err := ValidatePartial(incoming); err != nil {
		return nil, err
	}

	merged := *existing
	merged.Services = cloneSlice(existing.Services)
	merged.Credentials = cloneSlice(existing.Credentials)
	merged.SocialLinks = cloneSlice(existing.SocialLinks)
	merged.CustomAttributes = cloneSlice(existing.CustomAttributes)

	for _, rule := range Rules {
		rule.apply(&merged, incoming)
	}
	return &merged, nil
}

// overwrite applies the scalar policy: incoming wins only if non-empty.
func overwrite(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// unionByKey merges incoming items into existing by key: a key match
// updates the existing item in place, a new key appends, and existing
// keys never disappear. Items with empty keys are dropped.
func unionByKey[T any](existing, incoming []T, key func(T) string, update func(*T, T)) []T {
	out := make([]T, len(existing))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, v := range out {
		index[key(v)] = i
	}

	for _, in := range incoming {
		k := key(in)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			update(&out[i], in)
			continue
		}
		index[k] = len(out)
		out = append(out, in)
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
