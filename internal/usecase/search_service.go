package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopscout/backend/internal/domain"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL           time.Duration
	MaxResults         int
	QualityThreshold   float64
	EnableDebugLogging bool
}

// SearchService orchestrates a product search:
// cache lookup -> query source providers -> match filter -> relevance
// scoring -> badge ranking -> cache store.
//
// Providers are queried in registration order and their candidate lists are
// concatenated in that order, so the end-to-end result is reproducible for
// identical inputs.
type SearchService struct {
	providers []domain.SearchProvider
	cache     domain.CacheRepository
	builder   *IntentBuilder
	filter    *MatchFilter
	scorer    *RelevanceScorer
	ranker    *BadgeRanker
	cacheTTL  time.Duration
	debug     bool
}

// NewSearchService creates a search service with its dependencies
func NewSearchService(
	providers []domain.SearchProvider,
	cache domain.CacheRepository,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &SearchService{
		providers: providers,
		cache:     cache,
		builder:   NewIntentBuilder(config.EnableDebugLogging),
		filter: NewMatchFilter(FilterConfig{
			MaxResults:         config.MaxResults,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		scorer:   NewRelevanceScorer(),
		ranker:   NewBadgeRanker(RankerConfig{QualityThreshold: config.QualityThreshold}),
		cacheTTL: cacheTTL,
		debug:    config.EnableDebugLogging,
	}
}

// Search runs one end-to-end product search. An empty shortlist is a normal
// outcome; the only input error is a missing query with no extracted product
// to fall back on.
func (s *SearchService) Search(
	ctx context.Context,
	query string,
	extracted *domain.ExtractedProduct,
	constraints *domain.Constraints,
) (*domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" && (extracted == nil || extracted.Name == "") {
		return nil, domain.ErrInvalidIntent
	}

	start := time.Now()
	intent := s.builder.Build(query, extracted, constraints)
	cacheKey := s.generateCacheKey(intent)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		cached.Source = "Cache"
		cached.TookMs = time.Since(start).Milliseconds()
		return cached, nil
	}

	candidates, err := s.collectCandidates(ctx, intent)
	if err != nil {
		return nil, err
	}

	matched, err := s.filter.Filter(intent, candidates)
	if err != nil {
		return nil, err
	}

	scored := s.scorer.ScoreAll(intent, matched)
	ranked := s.ranker.Rank(scored)

	result := &domain.SearchResult{
		Query:   intent.Query,
		Results: ranked,
		Total:   len(ranked),
		Source:  "Live",
		TookMs:  time.Since(start).Milliseconds(),
	}

	if err := s.setInCache(ctx, cacheKey, result); err != nil && s.debug {
		log.Printf("[SEARCH] Cache store failed for %q: %v", cacheKey, err)
	}

	return result, nil
}

// collectCandidates queries every available provider in registration order.
// A failing provider is logged and skipped; the search only fails when every
// provider fails and none produced a single candidate.
func (s *SearchService) collectCandidates(ctx context.Context, intent *domain.SearchIntent) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	available := 0
	failed := 0

	for _, p := range s.providers {
		if !storeAllowed(intent.Constraints, p.Name()) {
			continue
		}
		if !p.IsAvailable() {
			if s.debug {
				log.Printf("[SEARCH] Skipping unavailable provider %q", p.Name())
			}
			continue
		}
		available++

		found, err := p.Search(ctx, intent)
		if err != nil {
			log.Printf("[SEARCH] Provider %q failed: %v", p.Name(), err)
			failed++
			continue
		}
		if s.debug {
			log.Printf("[SEARCH] Provider %q returned %d candidates", p.Name(), len(found))
		}
		candidates = append(candidates, found...)
	}

	if available == 0 {
		return nil, domain.ErrSourceUnavailable
	}
	if failed == available {
		return nil, fmt.Errorf("%w: all %d queried sources failed", domain.ErrSourceUnavailable, failed)
	}
	return candidates, nil
}

// storeAllowed honors the intent's store allow-list when one is set
func storeAllowed(constraints *domain.Constraints, store string) bool {
	if constraints == nil || len(constraints.Stores) == 0 {
		return true
	}
	for _, allowed := range constraints.Stores {
		if strings.EqualFold(allowed, store) {
			return true
		}
	}
	return false
}

// generateCacheKey builds a normalized cache key from the intent.
// Format: "search:{normalized_query}:{store}:{name}" so the same question
// asked twice hits the same entry regardless of casing or punctuation.
func (s *SearchService) generateCacheKey(intent *domain.SearchIntent) string {
	store := ""
	name := ""
	if intent.Extracted != nil {
		store = normalizeText(intent.Extracted.Store)
		name = normalizeText(intent.Extracted.Name)
	}
	return fmt.Sprintf("search:%s:%s:%s", normalizeText(intent.Query), store, name)
}

// getFromCache retrieves an assembled search result from cache
func (s *SearchService) getFromCache(ctx context.Context, key string) (*domain.SearchResult, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	result, ok := value.(*domain.SearchResult)
	if !ok {
		if asMap, ok := value.(map[string]interface{}); ok {
			return mapToSearchResult(asMap), nil
		}
		return nil, domain.ErrCacheMiss
	}
	return result, nil
}

// setInCache stores a search result in cache. The timestamp goes on a copy
// so the live response already handed to the caller stays unstamped.
func (s *SearchService) setInCache(ctx context.Context, key string, result *domain.SearchResult) error {
	stored := *result
	stored.CachedAt = time.Now()
	return s.cache.Set(ctx, key, &stored, s.cacheTTL)
}

// mapToSearchResult rebuilds a SearchResult from the generic map shape the
// cache hands back after its JSON round trip
func mapToSearchResult(data map[string]interface{}) *domain.SearchResult {
	result := &domain.SearchResult{}

	if v, ok := data["query"].(string); ok {
		result.Query = v
	}
	if v, ok := data["total"].(float64); ok {
		result.Total = int(v)
	}
	if v, ok := data["source"].(string); ok {
		result.Source = v
	}
	if v, ok := data["cachedAt"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			result.CachedAt = ts
		}
	}

	entries, ok := data["results"].([]interface{})
	if !ok {
		return result
	}
	for _, e := range entries {
		entry, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		result.Results = append(result.Results, mapToScoredCandidate(entry))
	}
	return result
}

// mapToScoredCandidate converts one cached result entry back to its typed form
func mapToScoredCandidate(data map[string]interface{}) domain.ScoredCandidate {
	sc := domain.ScoredCandidate{}

	if v, ok := data["id"].(string); ok {
		sc.ID = v
	}
	if v, ok := data["name"].(string); ok {
		sc.Name = v
	}
	if v, ok := data["price"].(float64); ok {
		sc.Price = v
	}
	if v, ok := data["currency"].(string); ok {
		sc.Currency = v
	}
	if v, ok := data["store"].(string); ok {
		sc.Store = v
	}
	if v, ok := data["category"].(string); ok {
		sc.Category = v
	}
	if v, ok := data["rating"].(float64); ok {
		sc.Rating = &v
	}
	if v, ok := data["reviewCount"].(float64); ok {
		n := int(v)
		sc.ReviewCount = &n
	}
	if v, ok := data["shippingDays"].(float64); ok {
		n := int(v)
		sc.ShippingDays = &n
	}
	if v, ok := data["shippingPrice"].(float64); ok {
		sc.ShippingPrice = &v
	}
	if v, ok := data["imageUrl"].(string); ok {
		sc.ImageURL = v
	}
	if v, ok := data["url"].(string); ok {
		sc.URL = v
	}
	if v, ok := data["affiliateUrl"].(string); ok {
		sc.AffiliateURL = v
	}
	if v, ok := data["score"].(float64); ok {
		sc.Score = v
	}
	if v, ok := data["badge"].(string); ok {
		sc.Badge = domain.Badge(v)
	}
	return sc
}
