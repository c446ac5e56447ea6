package siteintel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/siteintel/profile"
	"github.com/hazyhaar/siteintel/profilestore"
	"github.com/hazyhaar/siteintel/siteintel/internal/acquire"
	"github.com/hazyhaar/siteintel/siteintel/internal/extract"
)

// memStore is an in-memory Store recording every write.
type memStore struct {
	profiles map[string]*profile.StoredProfile
	log      []*profilestore.ScrapeLogEntry
	creates  int
	updates  int
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[string]*profile.StoredProfile)}
}

func (m *memStore) GetProfile(_ context.Context, ownerID string) (*profile.StoredProfile, error) {
	return m.profiles[ownerID], nil
}

func (m *memStore) CreateProfile(_ context.Context, ownerID string, p *profile.StoredProfile) (*profile.StoredProfile, error) {
	m.creates++
	p.ID = "prof_test"
	p.OwnerID = ownerID
	m.profiles[ownerID] = p
	return p, nil
}

func (m *memStore) UpdateProfile(_ context.Context, ownerID string, p *profile.StoredProfile) (*profile.StoredProfile, error) {
	m.updates++
	m.profiles[ownerID] = p
	return p, nil
}

func (m *memStore) RecordScrape(_ context.Context, e *profilestore.ScrapeLogEntry) error {
	m.log = append(m.log, e)
	return nil
}

func (m *memStore) ScrapeHistory(_ context.Context, ownerID string, _ int) ([]*profilestore.ScrapeLogEntry, error) {
	var out []*profilestore.ScrapeLogEntry
	for _, e := range m.log {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubAcquirer struct {
	agg *acquire.Aggregate
	err error
}

func (s *stubAcquirer) Acquire(_ context.Context, _ acquire.Request) (*acquire.Aggregate, error) {
	return s.agg, s.err
}

type stubExtractor struct {
	p *profile.ExtractedProfile
}

func (s *stubExtractor) Extract(_ context.Context, _ *acquire.Aggregate, _ extract.Schema) *profile.ExtractedProfile {
	return s.p
}

func goodExtraction() *profile.ExtractedProfile {
	return &profile.ExtractedProfile{
		BusinessName:     "Ace Plumbing",
		Category:         "plumber",
		Services:         []profile.Service{{Name: "Drain cleaning", Price: "$150"}},
		Confidence:       0.95,
		ExtractionMethod: profile.MethodDirect,
	}
}

func newTestService(store Store, a Acquirer, x Extractor) *Service {
	return New(store, nil, nil, nil, WithAcquirer(a), WithExtractor(x))
}

func TestScrape_CreatesNewProfile(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store,
		&stubAcquirer{agg: &acquire.Aggregate{Text: "content", Method: profile.MethodDirect}},
		&stubExtractor{p: goodExtraction()})

	res, err := svc.ScrapeBusinessWebsite(context.Background(), ScrapeRequest{OwnerID: "own_1", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.Data == nil {
		t.Fatalf("result = %+v, want success with data", res)
	}
	if store.creates != 1 || store.updates != 0 {
		t.Errorf("creates/updates = %d/%d, want 1/0", store.creates, store.updates)
	}
	if got := store.profiles["own_1"]; got == nil || got.BusinessName != "Ace Plumbing" {
		t.Errorf("stored profile = %+v", got)
	}
	if len(store.log) != 1 || store.log[0].Status != "ok" {
		t.Errorf("audit log = %+v, want one ok entry", store.log)
	}
}

func TestScrape_MergesIntoExisting(t *testing.T) {
	// WHAT: A rescrape updates the stored profile without losing the
	// services a previous scrape found.
	store := newMemStore()
	store.profiles["own_1"] = &profile.StoredProfile{
		ID: "prof_1", OwnerID: "own_1",
		BusinessName: "Ace Plumbing", Category: "plumber",
		Services: []profile.Service{{Name: "Water heater install", Price: "$900"}},
	}
	svc := newTestService(store,
		&stubAcquirer{agg: &acquire.Aggregate{Text: "content", Method: profile.MethodCrawl}},
		&stubExtractor{p: goodExtraction()})

	_, err := svc.ScrapeBusinessWebsite(context.Background(), ScrapeRequest{OwnerID: "own_1", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.updates != 1 || store.creates != 0 {
		t.Errorf("creates/updates = %d/%d, want 0/1", store.creates, store.updates)
	}
	got := store.profiles["own_1"]
	if len(got.Services) != 2 {
		t.Errorf("services = %+v, want union of old and new", got.Services)
	}
}

func TestScrape_AcquisitionFailureEnvelope(t *testing.T) {
	// WHAT: Acquisition exhaustion is reported inside the envelope,
	// not as an error, and nothing is written to the profile.
	store := newMemStore()
	svc := newTestService(store,
		&stubAcquirer{err: acquire.ErrAcquisitionFailed},
		&stubExtractor{p: goodExtraction()})

	res, err := svc.ScrapeBusinessWebsite(context.Background(), ScrapeRequest{OwnerID: "own_1", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success || res.Error == "" {
		t.Fatalf("result = %+v, want failure envelope", res)
	}
	if store.creates+store.updates != 0 {
		t.Error("profile written despite acquisition failure")
	}
	if len(store.log) != 1 || store.log[0].Status != "failed" {
		t.Errorf("audit log = %+v, want one failed entry", store.log)
	}
}

func TestScrape_DegradedExtractionSkipsMerge(t *testing.T) {
	store := newMemStore()
	degraded := &profile.ExtractedProfile{
		ExtractionMethod: profile.MethodFailed,
		Diagnostic:       "oracle unavailable",
	}
	svc := newTestService(store,
		&stubAcquirer{agg: &acquire.Aggregate{Text: "content", Method: profile.MethodDirect}},
		&stubExtractor{p: degraded})

	res, err := svc.ScrapeBusinessWebsite(context.Background(), ScrapeRequest{OwnerID: "own_1", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.Data.Diagnostic == "" {
		t.Fatalf("result = %+v, want success with degraded data", res)
	}
	if store.creates+store.updates != 0 {
		t.Error("degraded extraction must not touch the stored profile")
	}
	if len(store.log) != 1 || store.log[0].Status != "degraded" {
		t.Errorf("audit log = %+v, want one degraded entry", store.log)
	}
}

func TestScrape_RequestValidation(t *testing.T) {
	svc := newTestService(newMemStore(), &stubAcquirer{}, &stubExtractor{})
	cases := []ScrapeRequest{
		{OwnerID: "", URL: "https://example.com"},
		{OwnerID: "own_1", URL: ""},
		{OwnerID: "own_1", URL: "ftp://example.com"},
		{OwnerID: "own_1", URL: "http://127.0.0.1/admin"},
	}
	for _, req := range cases {
		if _, err := svc.ScrapeBusinessWebsite(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("req %+v: err = %v, want ErrInvalidRequest", req, err)
		}
	}
}

func TestScrape_MergeValidationSurfaces(t *testing.T) {
	// WHAT: An extraction missing required identity fields fails
	// merge validation for a first-time owner and surfaces as
	// ErrInvalidProfile, distinct from acquisition errors.
	store := newMemStore()
	nameless := &profile.ExtractedProfile{
		Category:         "plumber",
		ExtractionMethod: profile.MethodDirect,
	}
	svc := newTestService(store,
		&stubAcquirer{agg: &acquire.Aggregate{Text: "content", Method: profile.MethodDirect}},
		&stubExtractor{p: nameless})

	_, err := svc.ScrapeBusinessWebsite(context.Background(), ScrapeRequest{OwnerID: "own_1", URL: "https://example.com"})
	if !errors.Is(err, profile.ErrInvalidProfile) {
		t.Fatalf("err = %v, want ErrInvalidProfile", err)
	}
}

func TestHTTP_ScrapeAndGetProfile(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store,
		&stubAcquirer{agg: &acquire.Aggregate{Text: "content", Method: profile.MethodDirect}},
		&stubExtractor{p: goodExtraction()})

	r := chi.NewRouter()
	svc.RegisterRoutes(r)
	ts := httptest.NewServer(r)
	defer ts.Close()

	body, _ := json.Marshal(ScrapeRequest{OwnerID: "own_1", URL: "https://example.com"})
	resp, err := http.Post(ts.URL+"/v1/scrape", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("scrape request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scrape status = %d, want 200", resp.StatusCode)
	}
	var res ScrapeResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !res.Success || res.Data.BusinessName != "Ace Plumbing" {
		t.Fatalf("envelope = %+v", res)
	}

	get, err := http.Get(ts.URL + "/v1/profiles/own_1")
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", get.StatusCode)
	}

	missing, err := http.Get(ts.URL + "/v1/profiles/nobody")
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("missing profile status = %d, want 404", missing.StatusCode)
	}
}
