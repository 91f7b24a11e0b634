package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// StoreCatalog is the per-store product lookup capability. The mock catalog
// implements it today; a real store adapter can replace it without touching
// the optimizer.
type StoreCatalog interface {
	// Store returns the store identifier this catalog serves, e.g. "coles".
	Store() string
	// LookupCandidates returns candidate products for an ingredient name.
	// An empty slice means the store has no match; that is not an error.
	LookupCandidates(ctx context.Context, ingredientName string) ([]Product, error)
}

// RecipeExtractor extracts a structured recipe from fetched page content
type RecipeExtractor interface {
	ExtractRecipe(ctx context.Context, htmlContent, sourceURL string) (*Recipe, error)
}

// IngredientNormalizer parses raw ingredient lines into structured ingredients
type IngredientNormalizer interface {
	NormalizeIngredients(ctx context.Context, lines []string) ([]Ingredient, error)
}

// PageFetcher retrieves the raw content of a recipe page
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// BillRepository persists generated bills and their rendered output
type BillRepository interface {
	Save(ctx context.Context, bill *Bill, rendered []byte, format string) error
	Load(ctx context.Context, billID string) (*Bill, error)
	LoadRendered(ctx context.Context, billID, format string) ([]byte, error)
}
