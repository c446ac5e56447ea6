package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func noValidate(string) error { return nil }

func testFetcher() *Fetcher {
	return New(Config{URLValidator: noValidate})
}

func page(n int) string {
	return "<html><body>" + strings.Repeat("business content ", n) + "</body></html>"
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("user agent = %q, want browser profile", ua)
		}
		w.Write([]byte(page(20)))
	}))
	defer srv.Close()

	res, err := testFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusSuccess {
		t.Errorf("status = %s, want success", res.Status)
	}
	if res.HTTPStatus != 200 {
		t.Errorf("http status = %d", res.HTTPStatus)
	}
}

func TestFetch_BlockedStatusCodes(t *testing.T) {
	// WHAT: 403/429/5xx classify as blocked, with no Go error.
	// WHY: Blocked triggers strategy fallthrough, not pipeline abort.
	for _, code := range []int{403, 429, 500, 503} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		res, err := testFetcher().Fetch(context.Background(), srv.URL)
		srv.Close()
		if err != nil {
			t.Fatalf("code %d: unexpected error: %v", code, err)
		}
		if res.Status != StatusBlocked {
			t.Errorf("code %d: status = %s, want blocked", code, res.Status)
		}
	}
}

func TestFetch_ChallengeMarkerOn200(t *testing.T) {
	// WHAT: An interstitial served with HTTP 200 still classifies blocked.
	// WHY: WAF challenge pages return 200 with a JS check body.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><title>Just a moment...</title><body>" +
			strings.Repeat("checking your browser before accessing ", 10) + "</body></html>"))
	}))
	defer srv.Close()

	res, err := testFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusBlocked {
		t.Errorf("status = %s, want blocked", res.Status)
	}
}

func TestFetch_EmptyBelowFloor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	res, err := testFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusEmpty {
		t.Errorf("status = %s, want empty", res.Status)
	}
}

func TestFetch_NetworkErrorPropagates(t *testing.T) {
	// WHAT: A refused connection is a Go error, not a tagged result.
	// WHY: NetworkError aborts the current strategy; Blocked does not.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testFetcher().Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("expected network error for closed server")
	}
}

func TestFetch_ValidatorRejects(t *testing.T) {
	f := New(Config{})
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/x")
	if err == nil {
		t.Fatal("expected SSRF rejection")
	}
}

func TestFetch_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testFetcher().Fetch(ctx, srv.URL)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
