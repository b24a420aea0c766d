package dedup

// DefaultFuzzyThreshold is the minimum title similarity for two records on
// the same date and city to be treated as duplicates.
const DefaultFuzzyThreshold = 0.85

// Matcher decides whether two candidate events are near-duplicates. Date and
// city are hard gates; title similarity is the only fuzzy dimension.
type Matcher struct {
	threshold float64
}

// NewMatcher builds a Matcher with the given similarity threshold. Values
// outside (0,1] fall back to DefaultFuzzyThreshold.
func NewMatcher(threshold float64) Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}
	return Matcher{threshold: threshold}
}

func (m Matcher) Threshold() float64 {
	if m.threshold <= 0 || m.threshold > 1 {
		return DefaultFuzzyThreshold
	}
	return m.threshold
}

// AreSimilar reports whether two events are likely the same real-world event:
// identical calendar date, identical normalized city, and title similarity at
// or above the threshold.
func (m Matcher) AreSimilar(a, b Event) bool {
	if !sameDay(a.EventDate, b.EventDate) {
		return false
	}
	if NormalizeText(a.DestinationCity) != NormalizeText(b.DestinationCity) {
		return false
	}
	return TitleSimilarity(a.Title, b.Title) >= m.Threshold()
}
