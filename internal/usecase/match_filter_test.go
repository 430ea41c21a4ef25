package usecase

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/shopscout/backend/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

func queryIntent(query string) *domain.SearchIntent {
	return &domain.SearchIntent{Query: query}
}

func TestNewMatchFilter(t *testing.T) {
	t.Run("uses default cap when zero", func(t *testing.T) {
		f := NewMatchFilter(FilterConfig{})
		if f.maxResults != 30 {
			t.Errorf("maxResults = %d, want 30", f.maxResults)
		}
	})

	t.Run("uses provided cap", func(t *testing.T) {
		f := NewMatchFilter(FilterConfig{MaxResults: 5})
		if f.maxResults != 5 {
			t.Errorf("maxResults = %d, want 5", f.maxResults)
		}
	})
}

func TestFilterRejectsNilIntent(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})
	_, err := f.Filter(nil, []domain.Candidate{{ID: "p1", Name: "Mouse", Store: "acme"}})
	if err != domain.ErrInvalidIntent {
		t.Errorf("error = %v, want ErrInvalidIntent", err)
	}
}

func TestFilterValidity(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})

	candidates := []domain.Candidate{
		{ID: "", Name: "Wireless Mouse", Price: 20, Store: "acme"},
		{ID: "p2", Name: "", Price: 20, Store: "acme"},
		{ID: "p3", Name: "Wireless Mouse", Price: math.NaN(), Store: "acme"},
		{ID: "p4", Name: "Wireless Mouse", Price: math.Inf(1), Store: "acme"},
		{ID: "p5", Name: "Wireless Mouse", Price: 20, Store: "acme"},
	}

	result, err := f.Filter(queryIntent("wireless mouse"), candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].ID != "p5" {
		t.Errorf("result = %v, want only p5", result)
	}
}

func TestFilterDeduplication(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})

	t.Run("keeps first occurrence in input order", func(t *testing.T) {
		candidates := []domain.Candidate{
			{ID: "p1", Name: "Wireless Mouse Black", Price: 25, Store: "Acme"},
			{ID: "p1", Name: "Wireless Mouse Black v2", Price: 20, Store: "acme"},
			{ID: "p1", Name: "Wireless Mouse", Price: 30, Store: "Bolt"},
		}

		result, err := f.Filter(queryIntent("wireless mouse"), candidates)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result) != 2 {
			t.Fatalf("len = %d, want 2", len(result))
		}
		if result[0].Store != "Acme" || result[0].Price != 25 {
			t.Errorf("first = %+v, want the Acme/25 record", result[0])
		}
		if result[1].Store != "Bolt" {
			t.Errorf("second = %+v, want the Bolt record", result[1])
		}
	})

	t.Run("identifier casing does not defeat dedup", func(t *testing.T) {
		candidates := []domain.Candidate{
			{ID: "SKU-1", Name: "Wireless Mouse", Price: 25, Store: "Acme"},
			{ID: "sku-1", Name: "Wireless Mouse", Price: 20, Store: "acme"},
		}

		result, err := f.Filter(queryIntent("wireless mouse"), candidates)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result) != 1 || result[0].Price != 25 {
			t.Errorf("result = %+v, want only the first SKU-1 record", result)
		}
	})

	t.Run("no two outputs share a store and id pair", func(t *testing.T) {
		var candidates []domain.Candidate
		for i := 0; i < 10; i++ {
			candidates = append(candidates, domain.Candidate{
				ID: "p1", Name: "Wireless Mouse", Price: float64(10 + i), Store: "ACME",
			})
		}

		result, err := f.Filter(queryIntent("wireless mouse"), candidates)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		seen := map[string]bool{}
		for _, c := range result {
			key := c.Key()
			if seen[key] {
				t.Errorf("duplicate key %q in output", key)
			}
			seen[key] = true
		}
	})
}

func TestFilterSelfStoreExclusion(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})

	intent := &domain.SearchIntent{
		Query:     "wireless mouse",
		Extracted: &domain.ExtractedProduct{Name: "Wireless Mouse", Store: "Acme"},
	}
	candidates := []domain.Candidate{
		{ID: "p1", Name: "Wireless Mouse", Price: 20, Store: "ACME"},
		{ID: "p2", Name: "Wireless Mouse", Price: 22, Store: "acme"},
		{ID: "p3", Name: "Wireless Mouse", Price: 25, Store: "Bolt"},
	}

	result, err := f.Filter(intent, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].ID != "p3" {
		t.Errorf("result = %v, want only p3 (self-store excluded case-insensitively)", result)
	}
}

func TestFilterCategoryGate(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})

	tests := []struct {
		name      string
		intent    *domain.SearchIntent
		candidate domain.Candidate
		want      bool
	}{
		{
			name:      "no category context passes everything",
			intent:    queryIntent("wireless mouse"),
			candidate: domain.Candidate{ID: "p1", Name: "Wireless Mouse", Price: 20, Store: "acme", Category: "Toys"},
			want:      true,
		},
		{
			name: "candidate without category always passes",
			intent: &domain.SearchIntent{
				Query:     "wireless mouse",
				Extracted: &domain.ExtractedProduct{Name: "Wireless Mouse", Category: "Electronics"},
			},
			candidate: domain.Candidate{ID: "p1", Name: "Wireless Mouse", Price: 20, Store: "acme"},
			want:      true,
		},
		{
			name: "exact category match",
			intent: &domain.SearchIntent{
				Query:     "wireless mouse",
				Extracted: &domain.ExtractedProduct{Name: "Wireless Mouse", Category: "Electronics"},
			},
			candidate: domain.Candidate{ID: "p1", Name: "Wireless Mouse", Price: 20, Store: "acme", Category: "electronics"},
			want:      true,
		},
		{
			name: "substring containment either direction",
			intent: &domain.SearchIntent{
				Query:     "wireless mouse",
				Extracted: &domain.ExtractedProduct{Name: "Wireless Mouse", Category: "Consumer Electronics"},
			},
			candidate: domain.Candidate{ID: "p1", Name: "Wireless Mouse", Price: 20, Store: "acme", Category: "Electronics"},
			want:      true,
		},
		{
			name: "shared token longer than two chars",
			intent: &domain.SearchIntent{
				Query:     "blender",
				Extracted: &domain.ExtractedProduct{Name: "Power Blender", Category: "Kitchen Appliances"},
			},
			candidate: domain.Candidate{ID: "p1", Name: "Power Blender", Price: 50, Store: "acme", Category: "Home Kitchen"},
			want:      true,
		},
		{
			name: "incompatible with extracted category is dropped",
			intent: &domain.SearchIntent{
				Query:     "wireless mouse",
				Extracted: &domain.ExtractedProduct{Name: "Wireless Mouse", Category: "Electronics"},
			},
			candidate: domain.Candidate{ID: "p1", Name: "Wireless Mouse", Price: 20, Store: "acme", Category: "Garden Tools"},
			want:      false,
		},
		{
			name: "constraint list rescues extracted mismatch",
			intent: &domain.SearchIntent{
				Query:       "wireless mouse",
				Extracted:   &domain.ExtractedProduct{Name: "Wireless Mouse", Category: "Electronics"},
				Constraints: &domain.Constraints{Categories: []string{"Garden Tools"}},
			},
			candidate: domain.Candidate{ID: "p1", Name: "Wireless Mouse", Price: 20, Store: "acme", Category: "Garden Tools"},
			want:      true,
		},
		{
			name: "constraint-only mismatch is not dropped",
			intent: &domain.SearchIntent{
				Query:       "wireless mouse",
				Constraints: &domain.Constraints{Categories: []string{"Electronics"}},
			},
			candidate: domain.Candidate{ID: "p1", Name: "Wireless Mouse", Price: 20, Store: "acme", Category: "Garden Tools"},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.Filter(tt.intent, []domain.Candidate{tt.candidate})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := len(result) == 1
			if got != tt.want {
				t.Errorf("survived = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterTitleGate(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})

	tests := []struct {
		name   string
		intent *domain.SearchIntent
		cand   string
		want   bool
	}{
		{
			name:   "query contained in candidate name",
			intent: queryIntent("wireless mouse"),
			cand:   "Logitech Wireless Mouse M185",
			want:   true,
		},
		{
			name:   "candidate name contained in query",
			intent: queryIntent("logitech wireless mouse m185 black"),
			cand:   "Wireless Mouse M185",
			want:   true,
		},
		{
			name: "extracted name containment",
			intent: &domain.SearchIntent{
				Query:     "gift idea",
				Extracted: &domain.ExtractedProduct{Name: "Stainless Steel Water Bottle"},
			},
			cand: "Premium Stainless Steel Water Bottle 750ml",
			want: true,
		},
		{
			name: "two shared tokens with extracted name",
			intent: &domain.SearchIntent{
				Query:     "gift idea",
				Extracted: &domain.ExtractedProduct{Name: "Steel Bottle Insulated"},
			},
			cand: "Insulated Bottle Large",
			want: true,
		},
		{
			name: "one shared extracted token is not enough",
			intent: &domain.SearchIntent{
				Query:     "xyzzy",
				Extracted: &domain.ExtractedProduct{Name: "Steel Bottle Insulated"},
			},
			cand: "Bottle Opener",
			want: false,
		},
		{
			name:   "one shared query token passes",
			intent: queryIntent("ergonomic office chair"),
			cand:   "Mesh Chair with Lumbar Support",
			want:   true,
		},
		{
			name:   "short shared tokens do not count",
			intent: queryIntent("tv 4k"),
			cand:   "4k hd tv bracket fix kit bolts",
			want:   false, // "tv" and "4k" are shared but too short to signal a match
		},
		{
			name:   "no overlap at all",
			intent: queryIntent("wireless mouse"),
			cand:   "Ceramic Coffee Mug",
			want:   false,
		},
		{
			name:   "empty candidate name after normalization never passes",
			intent: queryIntent("wireless mouse"),
			cand:   "!!! ---",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := []domain.Candidate{{ID: "p1", Name: tt.cand, Price: 10, Store: "acme"}}
			result, err := f.Filter(tt.intent, candidates)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := len(result) == 1
			if got != tt.want {
				t.Errorf("survived = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterPriceRange(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})

	candidates := []domain.Candidate{
		{ID: "p1", Name: "Wireless Mouse", Price: 9.99, Store: "a"},
		{ID: "p2", Name: "Wireless Mouse", Price: 10, Store: "b"},
		{ID: "p3", Name: "Wireless Mouse", Price: 35, Store: "c"},
		{ID: "p4", Name: "Wireless Mouse", Price: 50, Store: "d"},
		{ID: "p5", Name: "Wireless Mouse", Price: 50.01, Store: "e"},
	}

	intent := &domain.SearchIntent{
		Query: "wireless mouse",
		Constraints: &domain.Constraints{
			MinPrice: floatPtr(10),
			MaxPrice: floatPtr(50),
		},
	}

	result, err := f.Filter(intent, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []string
	for _, c := range result {
		ids = append(ids, c.ID)
	}
	want := []string{"p2", "p3", "p4"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v (bounds inclusive)", ids, want)
	}
}

func TestFilterCap(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})

	var candidates []domain.Candidate
	for i := 0; i < 80; i++ {
		candidates = append(candidates, domain.Candidate{
			ID:    fmt.Sprintf("p%d", i),
			Name:  "Wireless Mouse",
			Price: float64(i),
			Store: fmt.Sprintf("store%d", i),
		})
	}

	result, err := f.Filter(queryIntent("wireless mouse"), candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 30 {
		t.Errorf("len = %d, want 30", len(result))
	}
	// Truncation keeps the earliest survivors in input order
	if result[0].ID != "p0" || result[29].ID != "p29" {
		t.Errorf("cap kept %s..%s, want p0..p29", result[0].ID, result[29].ID)
	}
}

func TestFilterIdempotence(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})

	intent := &domain.SearchIntent{
		Query:     "wireless mouse",
		Extracted: &domain.ExtractedProduct{Name: "Wireless Mouse", Store: "Acme", Category: "Electronics"},
		Constraints: &domain.Constraints{
			MaxPrice: floatPtr(100),
		},
	}

	candidates := []domain.Candidate{
		{ID: "p1", Name: "Wireless Mouse", Price: 20, Store: "Bolt", Category: "Electronics"},
		{ID: "p1", Name: "Wireless Mouse", Price: 21, Store: "bolt"},
		{ID: "p2", Name: "Wireless Mouse Pro", Price: 45, Store: "Corel"},
		{ID: "p3", Name: "Wireless Mouse", Price: 20, Store: "Acme"},
		{ID: "p4", Name: "Coffee Mug", Price: 9, Store: "Bolt"},
		{ID: "p5", Name: "Wireless Mouse XL", Price: 500, Store: "Dex"},
	}

	once, err := f.Filter(intent, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := f.Filter(intent, once)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filtering a filtered list changed it:\nonce  = %v\ntwice = %v", once, twice)
	}
}

func TestFilterDeterminism(t *testing.T) {
	f := NewMatchFilter(FilterConfig{})

	intent := &domain.SearchIntent{
		Query:     "wireless mouse",
		Extracted: &domain.ExtractedProduct{Name: "Wireless Mouse", Store: "Acme"},
	}
	var candidates []domain.Candidate
	for i := 0; i < 40; i++ {
		candidates = append(candidates, domain.Candidate{
			ID:    fmt.Sprintf("p%d", i%25), // includes duplicates
			Name:  "Wireless Mouse",
			Price: float64(i),
			Store: fmt.Sprintf("store%d", i%7),
		})
	}

	first, err := f.Filter(intent, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := f.Filter(intent, candidates)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Wireless Mouse", "wireless mouse"},
		{"  Wireless   Mouse  ", "wireless mouse"},
		{"Wi-Fi 6E Router!", "wifi 6e router"},
		{"C@fé", "cf"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := normalizeText(tt.in); got != tt.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSharedLongTokens(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"steel bottle insulated", "insulated bottle large", 2},
		{"tv 4k hd", "tv 4k oled", 0}, // all shared tokens too short
		{"wireless mouse", "wireless wireless mouse", 2},
		{"", "mouse", 0},
	}

	for _, tt := range tests {
		if got := sharedLongTokens(tt.a, tt.b); got != tt.want {
			t.Errorf("sharedLongTokens(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
