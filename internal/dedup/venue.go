package dedup

import (
	"regexp"
	"strings"
)

// Venue extraction is heuristic: scraped descriptions rarely mark the venue
// explicitly, so a fixed priority order of pure text extractors is applied
// and the first match wins.
var (
	venueAfterAtPattern = regexp.MustCompile(`\bat\s+([A-Z][A-Za-z\s&'-]+?)(?:\s+(?:on|in|at|during|for|from)|[-,.|]|$)`)
	venueLabeledPattern = regexp.MustCompile(`(?i)(?:location|venue|place):\s*([A-Za-z][A-Za-z\s&'-]+?)(?:\s*[-,.|]|$)`)
	venueLeadingPattern = regexp.MustCompile(`^([A-Z][A-Za-z\s&'-]+?)\s*[-–—]`)
)

// maxVenueLength matches the venue column width; longer matches are noise
// from run-on capitalized phrases, not venue names.
const maxVenueLength = 200

type venueExtractor func(text string) (string, bool)

var venueExtractors = []venueExtractor{
	venueAfterAt,
	venueLabeled,
	venueLeadingDash,
}

// ExtractVenue attempts to pull a venue name out of free text, typically an
// event description. Returns false when no heuristic matches or the input
// is blank.
func ExtractVenue(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	for _, extract := range venueExtractors {
		if venue, ok := extract(trimmed); ok && len(venue) <= maxVenueLength {
			return venue, true
		}
	}
	return "", false
}

// "at <Capitalized Phrase>", stopping at a following preposition or
// punctuation.
func venueAfterAt(text string) (string, bool) {
	match := venueAfterAtPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	venue := strings.TrimSpace(match[1])
	if venue == "" {
		return "", false
	}
	return venue, true
}

// "location:"/"venue:"/"place:" prefix, case-insensitive.
func venueLabeled(text string) (string, bool) {
	match := venueLabeledPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	venue := strings.TrimSpace(match[1])
	if venue == "" {
		return "", false
	}
	return venue, true
}

// "<Capitalized Phrase> -" at the start of the text. Single-word leads are
// rejected to cut down on false positives.
func venueLeadingDash(text string) (string, bool) {
	match := venueLeadingPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	venue := strings.TrimSpace(match[1])
	if len(venue) <= 2 || len(venue) >= 50 {
		return "", false
	}
	if !strings.Contains(venue, " ") {
		return "", false
	}
	return venue, true
}
