package profile

import (
	"errors"
	"reflect"
	"testing"
)

func TestMerge_NilExistingValidatesRequiredFields(t *testing.T) {
	// WHAT: Creating from scratch requires business_name and category.
	// WHY: Merge-layer validation errors must be terminal before any write.
	_, err := Merge(nil, &StoredProfile{Category: "plumber"})
	if !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("got %v, want ErrInvalidProfile", err)
	}

	p, err := Merge(nil, &StoredProfile{BusinessName: "Ace Plumbing", Category: "plumber"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BusinessName != "Ace Plumbing" {
		t.Errorf("got %q", p.BusinessName)
	}
}

func TestMerge_ScalarIncomingWinsOnlyIfNonEmpty(t *testing.T) {
	// WHAT: Empty incoming scalars retain the existing value.
	// WHY: A partial scrape must not blank out curated fields.
	existing := &StoredProfile{
		BusinessName:   "Ace Plumbing",
		Category:       "plumber",
		TargetAudience: "homeowners",
	}
	incoming := &StoredProfile{BusinessName: "Ace Plumbing & Heating"}

	merged, err := Merge(existing, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.BusinessName != "Ace Plumbing & Heating" {
		t.Errorf("business_name = %q, want overwrite", merged.BusinessName)
	}
	if merged.Category != "plumber" {
		t.Errorf("category = %q, want retained", merged.Category)
	}
	if merged.TargetAudience != "homeowners" {
		t.Errorf("target_audience = %q, want retained", merged.TargetAudience)
	}
}

func TestMerge_ShallowMergeContactKeyByKey(t *testing.T) {
	existing := &StoredProfile{
		BusinessName: "Ace", Category: "plumber",
		Contact: Contact{Phone: "512-555-0100", Email: "old@ace.example"},
	}
	incoming := &StoredProfile{Contact: Contact{Email: "new@ace.example", Website: "https://ace.example"}}

	merged, err := Merge(existing, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Contact{Phone: "512-555-0100", Email: "new@ace.example", Website: "https://ace.example"}
	if merged.Contact != want {
		t.Errorf("contact = %+v, want %+v", merged.Contact, want)
	}
}

func TestMerge_KeyedArrayUpdateOrAppend(t *testing.T) {
	// WHAT: Incoming item with a matching key updates it; new keys append.
	// WHY: The Haircut/Color reconciliation must yield 2 items, not 3.
	existing := &StoredProfile{
		BusinessName: "Shear Style", Category: "salon",
		Services: []Service{{Name: "Haircut"}},
	}
	incoming := &StoredProfile{
		Services: []Service{
			{Name: "Haircut", Price: "$20"},
			{Name: "Color"},
		},
	}

	merged, err := Merge(existing, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Service{{Name: "Haircut", Price: "$20"}, {Name: "Color"}}
	if !reflect.DeepEqual(merged.Services, want) {
		t.Errorf("services = %+v, want %+v", merged.Services, want)
	}
}

func TestMerge_NeverShrinksKeyedArrays(t *testing.T) {
	// WHAT: Existing items absent from incoming survive; N + M - K law.
	// WHY: A later partial scrape must not erase manually curated entries.
	existing := &StoredProfile{
		BusinessName: "Ace", Category: "plumber",
		Services: []Service{
			{Name: "Drain Cleaning", Price: "$99"},
			{Name: "Water Heater Install"},
			{Name: "Leak Repair"},
		},
	}
	incoming := &StoredProfile{
		Services: []Service{
			{Name: "Leak Repair", Price: "$150"}, // K=1 shared key
			{Name: "Repiping"},                   // new
		},
	}

	merged, err := Merge(existing, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// N=3, M=2, K=1 → 4 items.
	if len(merged.Services) != 4 {
		t.Fatalf("got %d services, want 4: %+v", len(merged.Services), merged.Services)
	}
	byName := map[string]Service{}
	for _, s := range merged.Services {
		byName[s.Name] = s
	}
	for _, name := range []string{"Drain Cleaning", "Water Heater Install", "Leak Repair", "Repiping"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("key %q disappeared from merge", name)
		}
	}
	if byName["Leak Repair"].Price != "$150" {
		t.Errorf("Leak Repair price = %q, want updated to $150", byName["Leak Repair"].Price)
	}
	if byName["Drain Cleaning"].Price != "$99" {
		t.Errorf("Drain Cleaning price = %q, want retained", byName["Drain Cleaning"].Price)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	// WHAT: Merging the same incoming into its own result changes nothing.
	// WHY: Re-running a scrape must not duplicate keyed-array entries.
	existing := &StoredProfile{
		BusinessName: "Ace", Category: "plumber",
		Services:         []Service{{Name: "Drain Cleaning"}},
		CustomAttributes: []Attribute{{Label: "Founded", Value: "1998"}},
	}
	incoming := &StoredProfile{
		Services:         []Service{{Name: "Leak Repair"}},
		CustomAttributes: []Attribute{{Label: "Founded", Value: "1997"}},
	}

	once, err := Merge(existing, incoming)
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	twice, err := Merge(once, incoming)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMerge_DoesNotMutateExisting(t *testing.T) {
	existing := &StoredProfile{
		BusinessName: "Ace", Category: "plumber",
		Services: []Service{{Name: "Drain Cleaning"}},
	}
	incoming := &StoredProfile{Services: []Service{{Name: "Drain Cleaning", Price: "$99"}}}

	if _, err := Merge(existing, incoming); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if existing.Services[0].Price != "" {
		t.Errorf("existing profile was mutated: %+v", existing.Services[0])
	}
}

func TestMerge_SkipsEmptyKeys(t *testing.T) {
	existing := &StoredProfile{BusinessName: "Ace", Category: "plumber"}
	incoming := &StoredProfile{Services: []Service{{Name: "", Price: "$1"}}}

	merged, err := Merge(existing, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged.Services) != 0 {
		t.Errorf("keyless item should be dropped, got %+v", merged.Services)
	}
}
