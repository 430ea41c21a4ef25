package sources

import "github.com/shopscout/backend/internal/domain"

// searchResponse is the wire shape shared by the store APIs and the local
// catalog files
type searchResponse struct {
	Products []productDTO `json:"products"`
	Total    int          `json:"total"`
}

// productDTO is one product record as sources emit it. Optional fields are
// pointers so "not reported" survives the trip; a store that omits rating is
// different from a store that reports zero.
type productDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency"`
	Category      string   `json:"category"`
	Rating        *float64 `json:"rating"`
	ReviewCount   *int     `json:"reviewCount"`
	ShippingDays  *int     `json:"shippingDays"`
	ShippingPrice *float64 `json:"shippingPrice"`
	ImageURL      string   `json:"imageUrl"`
	URL           string   `json:"url"`
	AffiliateURL  string   `json:"affiliateUrl"`
}

// mapProducts converts wire records to domain candidates, preserving input
// order. No validation happens here: the match filter owns the policy for
// dropping malformed records.
func mapProducts(dtos []productDTO, store string) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(dtos))
	for _, dto := range dtos {
		candidates = append(candidates, mapProduct(dto, store))
	}
	return candidates
}

// mapProduct converts a single wire record, stamping the source store
func mapProduct(dto productDTO, store string) domain.Candidate {
	currency := dto.Currency
	if currency == "" {
		currency = "USD"
	}

	return domain.Candidate{
		ID:            dto.ID,
		Name:          dto.Name,
		Price:         dto.Price,
		Currency:      currency,
		Store:         store,
		Category:      dto.Category,
		Rating:        dto.Rating,
		ReviewCount:   dto.ReviewCount,
		ShippingDays:  dto.ShippingDays,
		ShippingPrice: dto.ShippingPrice,
		ImageURL:      dto.ImageURL,
		URL:           dto.URL,
		AffiliateURL:  dto.AffiliateURL,
	}
}
