package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// The scrapers cover European destinations, so detection is restricted to
// the languages that actually appear in their descriptions. A smaller model
// set also keeps the detector's memory footprint down.
var scraperLanguages = []lingua.Language{
	lingua.English,
	lingua.Portuguese,
	lingua.Spanish,
	lingua.Catalan,
	lingua.Czech,
	lingua.German,
	lingua.French,
	lingua.Italian,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectISO6391 returns the two-letter language code of the sample, or the
// empty string when the sample is too short or detection is inconclusive.
func DetectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return ""
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(scraperLanguages...).
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
