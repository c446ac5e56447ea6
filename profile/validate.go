package profile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidProfile is returned when profile input fails validation.
// Callers distinguish it from acquisition errors: "the data you're
// submitting is invalid" vs "couldn't reach the site".
var ErrInvalidProfile = errors.New("profile: invalid input")

const (
	maxNameLen     = 512
	maxFieldLen    = 4096
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func errInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProfile, fmt.Sprintf(format, args...))
}

// ValidateNew validates a profile about to be created from scratch.
// Required: non-empty business name and category. Email and phone are
// optional but must be well-formed when present.
func ValidateNew(p *StoredProfile) error {
	if strings.TrimSpace(p.BusinessName) == "" {
		return errInvalid("business_name is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return errInvalid("category is required")
	}
	return ValidatePartial(p)
}

// ValidatePartial validates the well-formedness of whatever fields a
// partial profile carries; empty fields are fine.
func ValidatePartial(p *StoredProfile) error {
	if len(p.BusinessName) > maxNameLen {
		return errInvalid("business_name exceeds %d characters", maxNameLen)
	}
	if len(p.Description) > maxFieldLen {
		return errInvalid("description exceeds %d characters", maxFieldLen)
	}
	if p.Contact.Email != "" && !emailPattern.MatchString(p.Contact.Email) {
		return errInvalid("malformed email %q", p.Contact.Email)
	}
	if p.Contact.Phone != "" {
		digits := countDigits(p.Contact.Phone)
		if digits < minPhoneDigits || digits > maxPhoneDigits {
			return errInvalid("phone must contain %d-%d digits, got %d", minPhoneDigits, maxPhoneDigits, digits)
		}
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
