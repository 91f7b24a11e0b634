package catalog

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/shoplist/backend/internal/domain"
)

// premiumMarkup is the price multiplier for the premium product variant
const premiumMarkup = 1.3

var packagingSizes = []string{"250g", "400g", "500g", "750g", "1kg", "500ml", "1L"}

// MockCatalog fakes a store's product search. Results are generated with a
// seeded faker keyed on store and ingredient, so the same query always yields
// the same products and prices - the optimizer's inputs stay reproducible
// across runs and tests.
type MockCatalog struct {
	config StoreConfig
}

// NewMockCatalog creates a mock catalog for one store
func NewMockCatalog(config StoreConfig) *MockCatalog {
	if config.PriceFactor <= 0 {
		config.PriceFactor = 1.0
	}
	return &MockCatalog{config: config}
}

// Store returns the store identifier this catalog serves
func (c *MockCatalog) Store() string {
	return c.config.ID
}

// LookupCandidates returns two generated candidates per ingredient: the
// store's own brand at its base price and a premium variant at a markup.
func (c *MockCatalog) LookupCandidates(ctx context.Context, ingredientName string) ([]domain.Product, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	name := strings.TrimSpace(strings.ToLower(ingredientName))
	if name == "" {
		return nil, nil
	}

	faker := gofakeit.New(seedFor(c.config.ID, name))
	basePrice := round2(faker.Price(2.0, 10.0) * c.config.PriceFactor)
	size := packagingSizes[faker.Number(0, len(packagingSizes)-1)]
	slug := strings.ReplaceAll(name, " ", "-")

	products := []domain.Product{
		{
			Store: c.config.ID,
			Title: fmt.Sprintf("%s - %s Brand", titleCase(name), c.config.DisplayName),
			Brand: c.config.DisplayName,
			Size:  size,
			Price: basePrice,
			URL:   fmt.Sprintf("%s/product/%s", c.config.BaseURL, slug),
		},
		{
			Store: c.config.ID,
			Title: fmt.Sprintf("Premium %s", titleCase(name)),
			Brand: faker.Company(),
			Size:  size,
			Price: round2(basePrice * premiumMarkup),
			URL:   fmt.Sprintf("%s/product/premium-%s", c.config.BaseURL, slug),
		},
	}
	return products, nil
}

// seedFor derives a stable faker seed from store and ingredient
func seedFor(store, ingredient string) int64 {
	h := fnv.New64a()
	h.Write([]byte(store))
	h.Write([]byte{':'})
	h.Write([]byte(ingredient))
	return int64(h.Sum64() & math.MaxInt64)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
