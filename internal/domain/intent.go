package domain

// ExtractedProduct holds product details derived from a store URL or a prior
// extraction step. All fields are optional context for the matcher.
type ExtractedProduct struct {
	Name     string  `json:"name,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Category string  `json:"category,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	Store    string  `json:"store,omitempty"`
}

// Constraints narrows a search: price band, minimum rating, and allow-lists
// for categories and stores. Nil pointer fields impose no constraint.
type Constraints struct {
	MinPrice            *float64 `json:"minPrice,omitempty"`
	MaxPrice            *float64 `json:"maxPrice,omitempty"`
	MinRating           *float64 `json:"minRating,omitempty"`
	Categories          []string `json:"categories,omitempty"`
	Stores              []string `json:"stores,omitempty"`
	SimilarityThreshold float64  `json:"similarityThreshold,omitempty"`
}

// SearchIntent is the immutable description of what the user wants.
// Created once per search request and never mutated.
type SearchIntent struct {
	Query       string            `json:"query"`
	Extracted   *ExtractedProduct `json:"product,omitempty"`
	Constraints *Constraints      `json:"constraints,omitempty"`
}

// SourceStore returns the store the intent originated from, or "" when the
// intent carries no extracted product.
func (i *SearchIntent) SourceStore() string {
	if i.Extracted == nil {
		return ""
	}
	return i.Extracted.Store
}

// ExtractedName returns the extracted product name, or "".
func (i *SearchIntent) ExtractedName() string {
	if i.Extracted == nil {
		return ""
	}
	return i.Extracted.Name
}

// ExtractedCategory returns the extracted product category, or "".
func (i *SearchIntent) ExtractedCategory() string {
	if i.Extracted == nil {
		return ""
	}
	return i.Extracted.Category
}

// CategoryList returns the constraint category allow-list, or nil.
func (i *SearchIntent) CategoryList() []string {
	if i.Constraints == nil {
		return nil
	}
	return i.Constraints.Categories
}
