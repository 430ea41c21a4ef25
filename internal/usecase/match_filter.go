package usecase

import (
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/shopscout/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

const (
	// defaultMaxResults caps a filtered result list
	defaultMaxResults = 30

	// minTokenLength is the length a token must exceed to count toward
	// overlap checks; tokens of this length or shorter are too generic to
	// signal a match
	minTokenLength = 2
)

// FilterConfig holds configuration for the match filter
type FilterConfig struct {
	MaxResults         int
	EnableDebugLogging bool
}

// MatchFilter reduces a raw candidate list to the candidates that plausibly
// answer a search intent. It is pure: no I/O, no retained state between
// calls, and output depends only on the inputs and their order.
type MatchFilter struct {
	maxResults         int
	enableDebugLogging bool
}

// NewMatchFilter creates a match filter with the given configuration
func NewMatchFilter(config FilterConfig) *MatchFilter {
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return &MatchFilter{
		maxResults:         maxResults,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Filter runs the candidate pipeline:
// validity -> dedup -> self-store exclusion -> category gate -> title gate ->
// price range -> cap.
//
// Malformed individual candidates are dropped, never reported as errors.
// An empty result is a normal outcome. The only failure mode is a nil intent,
// which callers are expected to prevent.
func (f *MatchFilter) Filter(intent *domain.SearchIntent, candidates []domain.Candidate) ([]domain.Candidate, error) {
	if intent == nil {
		return nil, domain.ErrInvalidIntent
	}

	normalizedQuery := normalizeText(intent.Query)
	normalizedExtracted := normalizeText(intent.ExtractedName())
	sourceStore := intent.SourceStore()

	result := make([]domain.Candidate, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if !isValidCandidate(c) {
			continue
		}

		// First occurrence of a (store, id) pair wins; output order stays
		// input order.
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		// Never recommend the product back to the store it came from.
		if sourceStore != "" && strings.EqualFold(c.Store, sourceStore) {
			continue
		}

		if !f.passesCategoryGate(intent, c) {
			continue
		}

		if !passesTitleGate(normalizedQuery, normalizedExtracted, c.Name) {
			continue
		}

		if !passesPriceRange(intent.Constraints, c.Price) {
			continue
		}

		result = append(result, c)
		if len(result) == f.maxResults {
			break
		}
	}

	if f.enableDebugLogging {
		log.Printf("[FILTER] %d candidates in, %d out (query: %q)", len(candidates), len(result), intent.Query)
	}

	return result, nil
}

// isValidCandidate drops records missing an identifier or name, or whose
// price is not a finite number.
func isValidCandidate(c domain.Candidate) bool {
	if c.ID == "" || c.Name == "" {
		return false
	}
	if math.IsNaN(c.Price) || math.IsInf(c.Price, 0) {
		return false
	}
	return true
}

// passesCategoryGate applies the lenient category policy: with no category
// context on the intent everything passes, and a candidate without a category
// is never penalized for the missing data. A categorized candidate must be
// compatible with the extracted category, or failing that with any entry of
// the constraint category list. Only an extracted-category mismatch drops it.
func (f *MatchFilter) passesCategoryGate(intent *domain.SearchIntent, c domain.Candidate) bool {
	extracted := intent.ExtractedCategory()
	allowed := intent.CategoryList()

	if extracted == "" && len(allowed) == 0 {
		return true
	}
	if c.Category == "" {
		return true
	}

	if extracted != "" && categoriesCompatible(c.Category, extracted) {
		return true
	}
	for _, a := range allowed {
		if categoriesCompatible(c.Category, a) {
			return true
		}
	}

	return extracted == ""
}

// categoriesCompatible checks two category strings after normalization:
// exact match, substring containment in either direction, or at least one
// shared token longer than minTokenLength.
func categoriesCompatible(a, b string) bool {
	na := normalizeText(a)
	nb := normalizeText(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	return sharedLongTokens(na, nb) >= 1
}

// passesTitleGate checks candidate name relevance in strict precedence order:
// query containment, extracted-name containment, two-token overlap with the
// extracted name, then single-token overlap with the query. Containment wins
// over keyword overlap so strong literal matches are never at the mercy of
// tokenization.
func passesTitleGate(normalizedQuery, normalizedExtracted, candidateName string) bool {
	name := normalizeText(candidateName)
	if name == "" {
		return false
	}

	if normalizedQuery != "" &&
		(strings.Contains(name, normalizedQuery) || strings.Contains(normalizedQuery, name)) {
		return true
	}
	if normalizedExtracted != "" &&
		(strings.Contains(name, normalizedExtracted) || strings.Contains(normalizedExtracted, name)) {
		return true
	}
	if normalizedExtracted != "" && sharedLongTokens(normalizedExtracted, name) >= 2 {
		return true
	}
	if normalizedQuery != "" && sharedLongTokens(normalizedQuery, name) >= 1 {
		return true
	}

	return false
}

// passesPriceRange enforces the inclusive [min, max] price band when the
// intent specifies one
func passesPriceRange(constraints *domain.Constraints, price float64) bool {
	if constraints == nil {
		return true
	}
	if constraints.MinPrice != nil && price < *constraints.MinPrice {
		return false
	}
	if constraints.MaxPrice != nil && price > *constraints.MaxPrice {
		return false
	}
	return true
}

// normalizeText lowercases, strips everything outside a-z, 0-9 and spaces,
// collapses whitespace and trims
func normalizeText(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// sharedLongTokens counts distinct whitespace-delimited tokens longer than
// minTokenLength that appear in both normalized strings
func sharedLongTokens(a, b string) int {
	set := make(map[string]bool)
	for _, t := range strings.Fields(a) {
		if len(t) > minTokenLength {
			set[t] = true
		}
	}

	count := 0
	seen := make(map[string]bool)
	for _, t := range strings.Fields(b) {
		if len(t) > minTokenLength && set[t] && !seen[t] {
			count++
			seen[t] = true
		}
	}
	return count
}
