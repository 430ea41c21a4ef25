package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopscout/backend/internal/domain"
)

// CatalogSource is a SearchProvider backed by a local JSON catalog file.
// It exists for offline stores, fixtures and local development: the file is
// read once at construction and every Search returns the same records in
// file order, so results are reproducible by construction.
type CatalogSource struct {
	store      string
	candidates []domain.Candidate
}

// NewCatalogSource loads one catalog file. The store name is the file name
// without extension, e.g. "acme.json" becomes store "acme".
func NewCatalogSource(path string) (*CatalogSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	store := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return &CatalogSource{
		store:      store,
		candidates: mapProducts(resp.Products, store),
	}, nil
}

// LoadCatalogDir loads every *.json file in dir as a catalog source, in
// lexical file-name order so provider registration order is stable.
func LoadCatalogDir(dir string) ([]*CatalogSource, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan catalog dir %s: %w", dir, err)
	}
	sort.Strings(matches)

	catalogs := make([]*CatalogSource, 0, len(matches))
	for _, path := range matches {
		catalog, err := NewCatalogSource(path)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, catalog)
	}
	return catalogs, nil
}

// Name returns the store this catalog represents
func (c *CatalogSource) Name() string {
	return c.store
}

// IsAvailable is always true once the file has loaded
func (c *CatalogSource) IsAvailable() bool {
	return true
}

// Search returns a fresh copy of the catalog records. Relevance filtering is
// the match filter's job, not the adapter's.
func (c *CatalogSource) Search(ctx context.Context, intent *domain.SearchIntent) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Candidate, len(c.candidates))
	copy(out, c.candidates)
	return out, nil
}
