package dedup

import (
	"regexp"
	"strconv"
	"strings"
)

// PriceRangeVaries is the placeholder bucket assigned when no price signal
// is found. The persistence layer treats it as replaceable.
const PriceRangeVaries = "varies"

// Scraped sources span several languages, so the keyword tables carry the
// local spellings seen on the tourism sites.
var familyKeywords = []string{
	"family", "children", "kids", "child", "families",
	"família", "criança", "niños", "familia",
	"děti", "rodina", "kinder", "familie",
}

// categoryRules are evaluated in order after the family check; the first
// matching category wins.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{category: "cultural", keywords: []string{"museum", "art", "exhibition", "gallery", "culture", "história"}},
	{category: "outdoor", keywords: []string{"park", "garden", "outdoor", "nature", "hiking", "beach"}},
	{category: "festival", keywords: []string{"festival", "celebration", "carnival", "festa", "feier"}},
	{category: "food", keywords: []string{"food", "gastronomy", "cuisine", "restaurant", "comida"}},
	{category: "music", keywords: []string{"music", "concert", "symphony", "orchestra", "jazz", "rock"}},
	{category: "sports", keywords: []string{"sport", "game", "match", "competition", "race"}},
}

var freeKeywords = []string{
	"free", "grátis", "gratuito", "gratuita", "entrada gratuita",
	"zdarma", "kostenlos", "libre", "lliure",
}

var priceAmountPattern = regexp.MustCompile(`[€$£]\s*(\d+(?:\.\d{2})?)`)

// CategorizeEvent assigns a coarse category from title and description.
// Family-friendliness is checked first, then the ordered category rules;
// records with no keyword signal default to "cultural".
func CategorizeEvent(title, description string) string {
	text := strings.ToLower(title + " " + description)

	if containsAny(text, familyKeywords) {
		return "family"
	}
	for _, rule := range categoryRules {
		if containsAny(text, rule.keywords) {
			return rule.category
		}
	}
	return "cultural"
}

// ExtractPriceRange buckets free-text price information. Multilingual "free"
// markers win outright; otherwise the largest currency amount in the text
// picks the bucket.
func ExtractPriceRange(text string) string {
	lower := strings.ToLower(text)

	if containsAny(lower, freeKeywords) {
		return "free"
	}

	maxPrice := 0.0
	found := false
	for _, match := range priceAmountPattern.FindAllStringSubmatch(text, -1) {
		price, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if !found || price > maxPrice {
			maxPrice = price
			found = true
		}
	}
	if !found {
		return PriceRangeVaries
	}

	switch {
	case maxPrice < 20:
		return "<€20"
	case maxPrice < 50:
		return "€20-50"
	default:
		return "€50+"
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
