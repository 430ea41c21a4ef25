package usecase

import (
	"github.com/shopscout/backend/internal/domain"
)

// defaultQualityThreshold is the minimum rating a candidate needs to be
// eligible for the price-driven badges. Unrated candidates pass: absence of
// a rating is not evidence of poor quality.
const defaultQualityThreshold = 3.0

// RankerConfig holds configuration for the badge ranker
type RankerConfig struct {
	QualityThreshold float64
}

// BadgeRanker assigns at most one recommendation badge per candidate using a
// four-tier priority pass: best_choice, best_value, fastest, cheapest. Each
// tier picks a single winner among the candidates not yet badged by a higher
// tier, with fully deterministic tie-breaks (input order last).
type BadgeRanker struct {
	qualityThreshold float64
}

// NewBadgeRanker creates a badge ranker with the given configuration
func NewBadgeRanker(config RankerConfig) *BadgeRanker {
	threshold := config.QualityThreshold
	if threshold <= 0 {
		threshold = defaultQualityThreshold
	}

	return &BadgeRanker{
		qualityThreshold: threshold,
	}
}

// Rank returns the candidates in input order with badges assigned. The input
// slice is not modified. Missing fields are never errors: an absent rating or
// review count sorts below any present value, and a candidate without
// shipping data simply cannot win the fastest badge.
func (r *BadgeRanker) Rank(candidates []domain.ScoredCandidate) []domain.ScoredCandidate {
	ranked := make([]domain.ScoredCandidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		ranked[i].Badge = domain.BadgeNone
	}

	if len(ranked) == 0 {
		return ranked
	}

	r.assignBestChoice(ranked)
	r.assignBestValue(ranked)
	r.assignFastest(ranked)
	r.assignCheapest(ranked)

	return ranked
}

// assignBestChoice badges the highest-scoring candidate. A non-empty input
// always produces a best_choice winner.
func (r *BadgeRanker) assignBestChoice(ranked []domain.ScoredCandidate) {
	winner := -1
	for i := range ranked {
		if winner < 0 || bestChoiceBeats(ranked[i], ranked[winner]) {
			winner = i
		}
	}
	if winner >= 0 {
		ranked[winner].Badge = domain.BadgeBestChoice
	}
}

// bestChoiceBeats reports whether a strictly outranks b for best_choice:
// higher score, then higher rating, then higher review count, then lower
// price. Equal on all counts keeps the earlier candidate, so first in input
// order wins.
func bestChoiceBeats(a, b domain.ScoredCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if cmp := compareRatings(a.Rating, b.Rating); cmp != 0 {
		return cmp > 0
	}
	if cmp := compareReviewCounts(a.ReviewCount, b.ReviewCount); cmp != 0 {
		return cmp > 0
	}
	return a.Price < b.Price
}

// assignBestValue badges the cheapest unbadged candidate that clears the
// quality bar. No winner when every unbadged candidate is below it.
func (r *BadgeRanker) assignBestValue(ranked []domain.ScoredCandidate) {
	winner := -1
	for i := range ranked {
		if ranked[i].Badge != domain.BadgeNone || !r.priceBadgeEligible(ranked[i]) {
			continue
		}
		if winner < 0 || bestValueBeats(ranked[i], ranked[winner]) {
			winner = i
		}
	}
	if winner >= 0 {
		ranked[winner].Badge = domain.BadgeBestValue
	}
}

// bestValueBeats: lower price, then higher rating, then higher review count
func bestValueBeats(a, b domain.ScoredCandidate) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if cmp := compareRatings(a.Rating, b.Rating); cmp != 0 {
		return cmp > 0
	}
	return compareReviewCounts(a.ReviewCount, b.ReviewCount) > 0
}

// assignFastest badges the unbadged candidate with the shortest shipping
// time. Candidates without shipping data are not considered.
func (r *BadgeRanker) assignFastest(ranked []domain.ScoredCandidate) {
	winner := -1
	for i := range ranked {
		if ranked[i].Badge != domain.BadgeNone || ranked[i].ShippingDays == nil {
			continue
		}
		if winner < 0 || fastestBeats(ranked[i], ranked[winner]) {
			winner = i
		}
	}
	if winner >= 0 {
		ranked[winner].Badge = domain.BadgeFastest
	}
}

// fastestBeats: fewer shipping days, then lower price
func fastestBeats(a, b domain.ScoredCandidate) bool {
	if *a.ShippingDays != *b.ShippingDays {
		return *a.ShippingDays < *b.ShippingDays
	}
	return a.Price < b.Price
}

// assignCheapest badges the lowest-priced unbadged candidate above the
// quality bar. This surfaces the next-best low-price option after best_value
// (or the first one, when best_choice claimed the candidate best_value would
// have picked).
func (r *BadgeRanker) assignCheapest(ranked []domain.ScoredCandidate) {
	winner := -1
	for i := range ranked {
		if ranked[i].Badge != domain.BadgeNone || !r.priceBadgeEligible(ranked[i]) {
			continue
		}
		if winner < 0 || cheapestBeats(ranked[i], ranked[winner]) {
			winner = i
		}
	}
	if winner >= 0 {
		ranked[winner].Badge = domain.BadgeCheapest
	}
}

// cheapestBeats: lower price, then higher rating
func cheapestBeats(a, b domain.ScoredCandidate) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return compareRatings(a.Rating, b.Rating) > 0
}

// priceBadgeEligible gates the price-driven tiers: the candidate needs a
// meaningful positive price, and its rating must be absent or at least the
// quality threshold. Recommending a rock-bottom price on a poorly rated item
// is the failure mode this exists to prevent.
func (r *BadgeRanker) priceBadgeEligible(c domain.ScoredCandidate) bool {
	if c.Price <= 0 {
		return false
	}
	return c.Rating == nil || *c.Rating >= r.qualityThreshold
}

// compareRatings orders optional ratings; a missing rating sorts below any
// present one
func compareRatings(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

// compareReviewCounts orders optional review counts; missing sorts lowest
func compareReviewCounts(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
