package urlguard

import (
	"strings"
	"testing"
)

func TestValidateURL_RejectsNonHTTPSchemes(t *testing.T) {
	// WHAT: Only http and https pass validation.
	// WHY: file://, gopher:// etc. must never reach the fetcher.
	cases := []string{
		"file:///etc/passwd",
		"ftp://example.com/x",
		"javascript:alert(1)",
	}
	for _, input := range cases {
		if err := ValidateURL(input); err == nil {
			t.Errorf("ValidateURL(%q) should return error", input)
		}
	}
}

func TestValidateURL_RejectsPrivateIPs(t *testing.T) {
	// WHAT: Literal private/loopback IPs are blocked.
	// WHY: SSRF — a scraped page must not redirect us into the LAN.
	cases := []string{
		"http://127.0.0.1/admin",
		"http://10.0.0.5/",
		"http://192.168.1.1/",
		"http://169.254.169.254/latest/meta-data",
	}
	for _, input := range cases {
		if err := ValidateURL(input); err == nil {
			t.Errorf("ValidateURL(%q) should return error", input)
		}
	}
}

func TestValidateURL_RequiresHost(t *testing.T) {
	if err := ValidateURL("http:///nohost"); err == nil {
		t.Error("URL without host should return error")
	}
}

func TestSameOrigin(t *testing.T) {
	// WHAT: Same-origin comparison ignores scheme, case, and www prefix,
	// but a non-default port must match.
	// WHY: sitemap entries often use https://www. while the seed does
	// not; a different port is a different server.
	cases := []struct {
		seed, candidate string
		want            bool
	}{
		{"https://example.com", "https://example.com/about", true},
		{"https://example.com", "http://example.com/about", true},
		{"https://example.com", "https://www.example.com/menu", true},
		{"https://example.com", "https://Example.COM/menu", true},
		{"https://example.com", "https://example.com:443/about", true},
		{"http://example.com", "http://example.com:80/about", true},
		{"https://example.com", "http://example.com:8080/about", false},
		{"http://example.com:8080", "http://example.com:8080/x", true},
		{"https://example.com", "https://other.com/about", false},
		{"https://example.com", "https://sub.example.com/", false},
	}
	for _, tc := range cases {
		if got := SameOrigin(tc.seed, tc.candidate); got != tc.want {
			t.Errorf("SameOrigin(%q, %q) = %v, want %v", tc.seed, tc.candidate, got, tc.want)
		}
	}
}

func TestLimitedReadAll_EnforcesCap(t *testing.T) {
	// WHAT: Reads beyond maxBytes fail instead of silently truncating.
	// WHY: A hostile site must not balloon memory with an unbounded body.
	_, err := LimitedReadAll(strings.NewReader(strings.Repeat("a", 100)), 50)
	if err == nil {
		t.Fatal("expected error for oversized body")
	}

	data, err := LimitedReadAll(strings.NewReader("hello"), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("got %q, want %q", data, "hello")
	}
}
