package flightcache

import "testing"

func floatPtr(v float64) *float64 {
	return &v
}

func testFlight() Flight {
	return Flight{
		OriginAirport:      "MUC",
		DestinationAirport: "LIS",
		DepartureDate:      "2025-12-20",
		DepartureTime:      "08:30",
		Airline:            "TAP",
		PricePerPerson:     floatPtr(150.50),
	}
}

func TestHashFlightDeterministic(t *testing.T) {
	t.Parallel()

	first := HashFlight(testFlight())
	second := HashFlight(testFlight())
	if first != second {
		t.Fatalf("hash not deterministic: %q vs %q", first, second)
	}
	if len(first) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(first))
	}
}

func TestHashFlightCaseInsensitiveCodes(t *testing.T) {
	t.Parallel()

	upper := testFlight()
	lower := testFlight()
	lower.OriginAirport = "muc"
	lower.DestinationAirport = "lis"
	lower.Airline = "tap"

	if HashFlight(upper) != HashFlight(lower) {
		t.Fatalf("airport and airline codes should hash case-insensitively")
	}
}

func TestHashFlightPriceRounding(t *testing.T) {
	t.Parallel()

	a := testFlight()
	a.PricePerPerson = floatPtr(100.001)
	b := testFlight()
	b.PricePerPerson = floatPtr(100.004)
	if HashFlight(a) != HashFlight(b) {
		t.Fatalf("sub-cent price jitter must not change the hash")
	}

	c := testFlight()
	c.PricePerPerson = floatPtr(100.01)
	d := testFlight()
	d.PricePerPerson = floatPtr(100.00)
	if HashFlight(c) == HashFlight(d) {
		t.Fatalf("a one-cent difference must change the hash")
	}
}

func TestHashFlightDefaults(t *testing.T) {
	t.Parallel()

	explicit := Flight{
		OriginAirport:      "MUC",
		DestinationAirport: "LIS",
		DepartureDate:      "2025-12-20",
		DepartureTime:      "00:00",
		Airline:            "UNKNOWN",
		PricePerPerson:     floatPtr(100),
	}
	defaulted := Flight{
		OriginAirport:      "MUC",
		DestinationAirport: "LIS",
		DepartureDate:      "2025-12-20",
		TotalPrice:         floatPtr(400),
	}

	if HashFlight(explicit) != HashFlight(defaulted) {
		t.Fatalf("missing time/airline/per-person price should hash with documented defaults")
	}
}

func TestHashFlightZeroPriceFallback(t *testing.T) {
	t.Parallel()

	flight := Flight{
		OriginAirport:      "MUC",
		DestinationAirport: "LIS",
		DepartureDate:      "2025-12-20",
	}
	zero := flight
	zero.PricePerPerson = floatPtr(0)

	if HashFlight(flight) != HashFlight(zero) {
		t.Fatalf("absent prices should fall back to zero")
	}
}
