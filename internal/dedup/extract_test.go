package dedup

import "testing"

func TestCategorizeEventFamilyWinsFirst(t *testing.T) {
	t.Parallel()

	// "festival" would also match, but family keywords take priority.
	if got := CategorizeEvent("Kids Festival", ""); got != "family" {
		t.Fatalf("expected family, got %q", got)
	}
	if got := CategorizeEvent("Festa para crianças", ""); got != "family" {
		t.Fatalf("expected family for local-language keyword, got %q", got)
	}
}

func TestCategorizeEventOrderedRules(t *testing.T) {
	t.Parallel()

	if got := CategorizeEvent("Modern Art Exhibition", "at the city gallery"); got != "cultural" {
		t.Fatalf("expected cultural, got %q", got)
	}
	if got := CategorizeEvent("Symphony Night", "open-air concert"); got != "music" {
		t.Fatalf("expected music, got %q", got)
	}
	if got := CategorizeEvent("Botanical Garden Tour", ""); got != "outdoor" {
		t.Fatalf("expected outdoor, got %q", got)
	}
}

func TestCategorizeEventDefault(t *testing.T) {
	t.Parallel()

	if got := CategorizeEvent("An Unremarkable Evening", ""); got != "cultural" {
		t.Fatalf("expected default category, got %q", got)
	}
}

func TestExtractPriceRangeFree(t *testing.T) {
	t.Parallel()

	if got := ExtractPriceRange("Entrada gratuita for all visitors"); got != "free" {
		t.Fatalf("expected free, got %q", got)
	}
	if got := ExtractPriceRange("Admission is FREE"); got != "free" {
		t.Fatalf("expected free, got %q", got)
	}
}

func TestExtractPriceRangeBuckets(t *testing.T) {
	t.Parallel()

	if got := ExtractPriceRange("Tickets from €12"); got != "<€20" {
		t.Fatalf("expected <€20, got %q", got)
	}
	if got := ExtractPriceRange("Adults €35, children €15"); got != "€20-50" {
		t.Fatalf("expected €20-50 from the highest price, got %q", got)
	}
	if got := ExtractPriceRange("VIP packages at € 120.00"); got != "€50+" {
		t.Fatalf("expected €50+, got %q", got)
	}
}

func TestExtractPriceRangeVaries(t *testing.T) {
	t.Parallel()

	if got := ExtractPriceRange("see website for details"); got != PriceRangeVaries {
		t.Fatalf("expected varies, got %q", got)
	}
}
