package siteintel

import "errors"

// ErrInvalidRequest is returned when a scrape request fails validation
// before any network work starts.
var ErrInvalidRequest = errors.New("siteintel: invalid request")

// ErrProfileNotFound is returned when an owner has no stored profile.
var ErrProfileNotFound = errors.New("siteintel: profile not found")
