package usecase

import (
	"strings"

	"github.com/shopscout/backend/internal/domain"
)

// Scoring weights. Intent coverage matters most: if every word the user
// typed appears in the candidate name, that is a strong match even when the
// candidate name carries extra detail.
const (
	intentCoverageWeight    = 0.60
	candidateCoverageWeight = 0.20
	jaccardWeight           = 0.20

	substringBonus = 0.10 // candidate name contains the intent text or vice versa
	brandBonus     = 0.15 // extracted brand appears in the candidate name
	ratingBonus    = 0.05 // rated at least 4.0 with reviews to back it up

	ratedWellThreshold  = 4.0
	ratedWellMinReviews = 10
)

// RelevanceScorer turns filtered candidates into scored candidates. Scores
// are in [0, 1] and depend only on the intent and the candidate, never on
// other candidates, so scoring is order-preserving and deterministic.
type RelevanceScorer struct{}

// NewRelevanceScorer creates a relevance scorer
func NewRelevanceScorer() *RelevanceScorer {
	return &RelevanceScorer{}
}

// ScoreAll scores every candidate against the intent, preserving input order
func (s *RelevanceScorer) ScoreAll(intent *domain.SearchIntent, candidates []domain.Candidate) []domain.ScoredCandidate {
	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, domain.ScoredCandidate{
			Candidate: c,
			Score:     s.Score(intent, c),
		})
	}
	return scored
}

// Score computes the relevance of one candidate to the intent.
// Token coverage in both directions plus Jaccard overlap forms the base, and
// literal containment, brand presence and a solid rating add small bonuses.
func (s *RelevanceScorer) Score(intent *domain.SearchIntent, c domain.Candidate) float64 {
	reference := referenceText(intent)
	refNorm := normalizeText(reference)
	nameNorm := normalizeText(c.Name)

	refTokens := strings.Fields(refNorm)
	nameTokens := strings.Fields(nameNorm)
	if len(refTokens) == 0 || len(nameTokens) == 0 {
		return 0
	}

	matched := countIntersection(refTokens, nameTokens)
	refCoverage := float64(matched) / float64(len(refTokens))
	nameCoverage := float64(countIntersection(nameTokens, refTokens)) / float64(len(nameTokens))
	jaccard := float64(matched) / float64(countUnion(refTokens, nameTokens))

	score := refCoverage*intentCoverageWeight + nameCoverage*candidateCoverageWeight + jaccard*jaccardWeight

	if len(refNorm) > 3 && (strings.Contains(nameNorm, refNorm) || strings.Contains(refNorm, nameNorm)) {
		score += substringBonus
	}

	if intent.Extracted != nil && intent.Extracted.Brand != "" {
		brand := normalizeText(intent.Extracted.Brand)
		if brand != "" && strings.Contains(nameNorm, brand) {
			score += brandBonus
		}
	}

	if c.Rating != nil && *c.Rating >= ratedWellThreshold &&
		c.ReviewCount != nil && *c.ReviewCount >= ratedWellMinReviews {
		score += ratingBonus
	}

	if score > 1 {
		score = 1
	}
	return score
}

// referenceText picks the best text to score against: the extracted product
// name when present (it is the richer signal), otherwise the raw query
func referenceText(intent *domain.SearchIntent) string {
	if name := intent.ExtractedName(); name != "" {
		return name
	}
	return intent.Query
}

// countIntersection returns how many distinct tokens of a appear in b
func countIntersection(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}

	count := 0
	seen := make(map[string]bool, len(a))
	for _, t := range a {
		if set[t] && !seen[t] {
			count++
			seen[t] = true
		}
	}
	return count
}

// countUnion returns the number of distinct tokens across both slices
func countUnion(a, b []string) int {
	set := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		set[t] = true
	}
	return len(set)
}
