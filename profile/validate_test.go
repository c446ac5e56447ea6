package profile

import (
	"errors"
	"testing"
)

func TestValidateNew_RequiresNameAndCategory(t *testing.T) {
	cases := []struct {
		name string
		p    StoredProfile
		ok   bool
	}{
		{"both present", StoredProfile{BusinessName: "Ace", Category: "plumber"}, true},
		{"missing name", StoredProfile{Category: "plumber"}, false},
		{"missing category", StoredProfile{BusinessName: "Ace"}, false},
		{"whitespace name", StoredProfile{BusinessName: "   ", Category: "plumber"}, false},
	}
	for _, tc := range cases {
		err := ValidateNew(&tc.p)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidProfile) {
			t.Errorf("%s: got %v, want ErrInvalidProfile", tc.name, err)
		}
	}
}

func TestValidatePartial_Email(t *testing.T) {
	// WHAT: Present emails must be well-formed; absent ones are fine.
	// WHY: The oracle sometimes emits prose ("contact us by email") in
	// the email field.
	cases := []struct {
		email string
		ok    bool
	}{
		{"", true},
		{"info@ace.example", true},
		{"not-an-email", false},
		{"two words@x.com", false},
	}
	for _, tc := range cases {
		p := StoredProfile{Contact: Contact{Email: tc.email}}
		err := ValidatePartial(&p)
		if tc.ok && err != nil {
			t.Errorf("email %q: unexpected error: %v", tc.email, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("email %q: should return error", tc.email)
		}
	}
}

func TestValidatePartial_PhoneDigitCount(t *testing.T) {
	// WHAT: Phones need 10-15 digits regardless of formatting.
	// WHY: "(512) 555-0100" and "+1 512 555 0100" are both valid shapes.
	cases := []struct {
		phone string
		ok    bool
	}{
		{"", true},
		{"(512) 555-0100", true},
		{"+1 512 555 0100", true},
		{"555-0100", false},          // 7 digits
		{"1234567890123456", false},  // 16 digits
	}
	for _, tc := range cases {
		p := StoredProfile{Contact: Contact{Phone: tc.phone}}
		err := ValidatePartial(&p)
		if tc.ok && err != nil {
			t.Errorf("phone %q: unexpected error: %v", tc.phone, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("phone %q: should return error", tc.phone)
		}
	}
}
