package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/shopscout/backend/internal/domain"
)

// Compiled regex patterns for query cleanup
var (
	// Matches size/quantity patterns like "128 fl oz", "1.5 liter", "2 lb"
	sizePatternRegex = regexp.MustCompile(
		`(?i)\b\d+\.?\d*\s*(?:fl\s*oz|oz|ml|liters?|l|gallons?|gal|lbs?|pounds?|kg|grams?|g|ct|count|pk|pack|ea|each|qt|quart|pt|pint)\b`,
	)

	// Matches pack/count patterns like "12 pack", "pack of 6", "6-pack"
	packCountRegex = regexp.MustCompile(`(?i)\b\d+[-\s]*(pack|pk|count|ct)\b|\bpack\s*of\s*\d+\b`)
)

// queryNoiseWords are marketing and packaging terms that add nothing to
// cross-store matching
var queryNoiseWords = map[string]bool{
	// Marketing terms
	"value": true, "family": true, "bonus": true, "new": true,
	"improved": true, "premium": true, "deluxe": true, "official": true,
	"authentic": true, "genuine": true, "original": true, "exclusive": true,

	// Size descriptors
	"size": true, "large": true, "medium": true, "small": true,
	"mini": true, "jumbo": true, "giant": true, "big": true,

	// Packaging terms
	"package": true, "box": true, "bundle": true, "carton": true,
	"sleeve": true, "pouch": true,

	// Generic terms that never narrow a product search
	"item": true, "product": true, "buy": true, "cheap": true,
	"online": true, "sale": true, "deal": true, "shipping": true,
}

// IntentBuilder turns a raw search request into a SearchIntent with a
// cleaned query. Store product titles are noisy ("Acme Wireless Mouse,
// 2-Pack, Value Size!") and the noise hurts token matching downstream.
type IntentBuilder struct {
	enableDebugLogging bool
}

// NewIntentBuilder creates an intent builder
func NewIntentBuilder(enableDebugLogging bool) *IntentBuilder {
	return &IntentBuilder{
		enableDebugLogging: enableDebugLogging,
	}
}

// Build assembles the immutable SearchIntent for one search request.
// The extracted product and constraints pass through untouched; only the
// query text is cleaned.
func (b *IntentBuilder) Build(query string, extracted *domain.ExtractedProduct, constraints *domain.Constraints) *domain.SearchIntent {
	cleaned := b.CleanQuery(query)

	return &domain.SearchIntent{
		Query:       cleaned,
		Extracted:   extracted,
		Constraints: constraints,
	}
}

// CleanQuery strips size patterns, pack counts and noise words from a raw
// query, collapsing the leftovers into a compact search string. A query that
// is all noise falls back to the original trimmed text rather than going
// empty.
func (b *IntentBuilder) CleanQuery(query string) string {
	original := strings.TrimSpace(query)
	if original == "" {
		return ""
	}

	cleaned := sizePatternRegex.ReplaceAllString(original, " ")
	cleaned = packCountRegex.ReplaceAllString(cleaned, " ")
	cleaned = removeNoiseWords(cleaned)
	cleaned = multipleSpacesRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		cleaned = original
	}

	if b.enableDebugLogging && cleaned != original {
		log.Printf("[INTENT] Cleaned query %q -> %q", original, cleaned)
	}

	return cleaned
}

// removeNoiseWords drops noise words, preserving the rest verbatim
func removeNoiseWords(s string) string {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))

	for _, word := range words {
		check := strings.ToLower(strings.Trim(word, ",.!?;:-'\""))
		if !queryNoiseWords[check] {
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}
