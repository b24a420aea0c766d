package flightcache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

const (
	defaultDepartureTime = "00:00"
	defaultAirline       = "UNKNOWN"
	partySize            = 4
)

// HashFlight fingerprints a flight offer: uppercased route and airline,
// departure date and time, and per-person price rounded to two decimals so
// sub-cent quote jitter does not defeat the cache. The 32-char md5 hex is
// wide enough for an existence key and keeps Redis keys short.
func HashFlight(flight Flight) string {
	origin := strings.ToUpper(strings.TrimSpace(flight.OriginAirport))
	destination := strings.ToUpper(strings.TrimSpace(flight.DestinationAirport))

	departureTime := strings.TrimSpace(flight.DepartureTime)
	if departureTime == "" {
		departureTime = defaultDepartureTime
	}

	airline := strings.ToUpper(strings.TrimSpace(flight.Airline))
	if airline == "" {
		airline = defaultAirline
	}

	input := fmt.Sprintf(
		"%s_%s_%s_%s_%s_%.2f",
		origin,
		destination,
		strings.TrimSpace(flight.DepartureDate),
		departureTime,
		airline,
		pricePerPerson(flight),
	)

	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

// pricePerPerson resolves the price component of the fingerprint: the
// per-person price when present, else total price split across the party,
// else zero.
func pricePerPerson(flight Flight) float64 {
	price := 0.0
	switch {
	case flight.PricePerPerson != nil:
		price = *flight.PricePerPerson
	case flight.TotalPrice != nil:
		price = *flight.TotalPrice / partySize
	}
	return math.Round(price*100) / 100
}
