package launch

import (
	"math/rand"
	"testing"
)

func TestTotalPayloadMassSkipsUndefinedEntries(t *testing.T) {
	doc := Document{
		"id": "abc",
		"payloads": []any{
			map[string]any{"mass_kg": float64(100)},
			map[string]any{"mass_kg": nil},
			map[string]any{"mass_kg": float64(300)},
		},
	}
	total := TotalPayloadMass(doc)
	if total == nil {
		t.Fatalf("expected defined total")
	}
	if *total != 400 {
		t.Fatalf("expected total 400, got %v", *total)
	}
	if avg := *total / 2; avg != 200 {
		t.Fatalf("expected average 200 over defined entries, got %v", avg)
	}
}

func TestTotalPayloadMassUndefined(t *testing.T) {
	cases := []struct {
		name string
		doc  Document
	}{
		{"no payloads key", Document{"id": "a"}},
		{"empty array", Document{"payloads": []any{}}},
		{"no masses", Document{"payloads": []any{map[string]any{"mass_kg": nil}, map[string]any{"id": "p1"}}}},
		{"not an array", Document{"payloads": "oops"}},
	}
	for _, tc := range cases {
		if got := TotalPayloadMass(tc.doc); got != nil {
			t.Fatalf("%s: expected nil total, got %v", tc.name, *got)
		}
	}
}

func TestDerivedPolicyMeasures(t *testing.T) {
	doc := Document{"payloads": []any{map[string]any{"mass_kg": float64(500)}}}
	mass, delay := PolicyDerived.Measures(doc, nil)
	if mass == nil || *mass != 500 {
		t.Fatalf("expected derived mass 500, got %v", mass)
	}
	if delay != nil {
		t.Fatalf("derived policy must not fabricate a delay, got %v", *delay)
	}
}

func TestSimulatedPolicyMeasures(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	doc := Document{"payloads": []any{
		map[string]any{"id": "p1"},
		map[string]any{"id": "p2"},
	}}
	mass, delay := PolicySimulated.Measures(doc, rng)
	if mass == nil || delay == nil {
		t.Fatalf("simulated policy must produce both measures")
	}
	if *mass < 4000 || *mass > 12000 {
		t.Fatalf("simulated mass out of range for 2 payloads: %v", *mass)
	}
	if *delay < 0 || *delay > 120 {
		t.Fatalf("simulated delay out of range: %v", *delay)
	}
}

func TestSimulatedPolicyDoesNotMutateDocument(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	doc := Document{"id": "abc", "payloads": []any{map[string]any{"id": "p1"}}}
	PolicySimulated.Measures(doc, rng)
	if len(doc) != 2 {
		t.Fatalf("document mutated by measure policy: %v", doc)
	}
}

func TestParseMeasurePolicy(t *testing.T) {
	if p, ok := ParseMeasurePolicy(""); !ok || p != PolicyDerived {
		t.Fatalf("empty input should default to derived, got %q %v", p, ok)
	}
	if p, ok := ParseMeasurePolicy("simulated"); !ok || p != PolicySimulated {
		t.Fatalf("expected simulated, got %q %v", p, ok)
	}
	if _, ok := ParseMeasurePolicy("bogus"); ok {
		t.Fatalf("expected rejection of unknown policy")
	}
}

func TestDocumentID(t *testing.T) {
	if got := (Document{"id": "abc123"}).ID(); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}
	if got := (Document{"id": 42.0}).ID(); got != "" {
		t.Fatalf("expected empty id for non-string, got %q", got)
	}
	if got := (Document{}).ID(); got != "" {
		t.Fatalf("expected empty id for missing field, got %q", got)
	}
}
