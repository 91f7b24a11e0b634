package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shoplist/backend/internal/domain"
)

type stubFetcher struct {
	content string
	err     error
	calls   int
}

func (f *stubFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.content, f.err
}

type stubExtractor struct {
	recipe *domain.Recipe
	err    error
	calls  int
}

func (e *stubExtractor) ExtractRecipe(ctx context.Context, htmlContent, sourceURL string) (*domain.Recipe, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	r := *e.recipe
	r.SourceURL = sourceURL
	return &r, nil
}

type stubCatalog struct {
	store  string
	prices map[string]float64
	err    error
}

func (c *stubCatalog) Store() string { return c.store }

func (c *stubCatalog) LookupCandidates(ctx context.Context, ingredientName string) ([]domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	price, ok := c.prices[ingredientName]
	if !ok {
		return nil, nil
	}
	return []domain.Product{{Store: c.store, Title: ingredientName, Price: price}}, nil
}

type stubCache struct {
	data map[string]interface{}
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]interface{})}
}

func (c *stubCache) Get(ctx context.Context, key string) (interface{}, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *stubCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

func stirFryService(t *testing.T) (*ShoppingService, *stubFetcher, *stubExtractor) {
	t.Helper()

	fetcher := &stubFetcher{content: "<html>stir fry</html>"}
	extractor := &stubExtractor{recipe: &domain.Recipe{
		Title:       "Chicken Stir Fry",
		Ingredients: []string{"chicken", "vegetables", "soy sauce", "rice"},
	}}
	catalogs := []domain.StoreCatalog{
		&stubCatalog{store: "coles", prices: map[string]float64{
			"chicken": 8.99, "vegetables": 4.50, "soy sauce": 3.20, "rice": 2.80,
		}},
		&stubCatalog{store: "woolworths", prices: map[string]float64{
			"chicken": 9.50, "vegetables": 4.20, "soy sauce": 3.50, "rice": 2.90,
		}},
		&stubCatalog{store: "aldi", prices: map[string]float64{
			"chicken": 7.99, "vegetables": 3.80, "soy sauce": 2.90, "rice": 2.50,
		}},
	}

	optimizer := NewShoppingOptimizer(OptimizerConfig{
		TravelCostPerStore: 5,
		StoreOrder:         []string{"coles", "woolworths", "aldi"},
	})

	service := NewShoppingService(
		fetcher,
		extractor,
		NewRuleIngredientNormalizer(false),
		catalogs,
		newStubCache(),
		optimizer,
		ShoppingServiceConfig{},
	)
	return service, fetcher, extractor
}

func TestBuildShoplist(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for nil request", func(t *testing.T) {
		service, _, _ := stirFryService(t)
		_, _, err := service.BuildShoplist(ctx, nil)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("returns error for empty url", func(t *testing.T) {
		service, _, _ := stirFryService(t)
		_, _, err := service.BuildShoplist(ctx, &domain.ShoplistRequest{})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("full pipeline picks cheapest single store", func(t *testing.T) {
		service, _, _ := stirFryService(t)
		recipe, result, err := service.BuildShoplist(ctx, &domain.ShoplistRequest{
			RecipeURL: "https://recipes.example.com/stir-fry",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if recipe.Title != "Chicken Stir Fry" {
			t.Errorf("Title = %q, want Chicken Stir Fry", recipe.Title)
		}
		if result.Strategy != domain.StrategySingleStore {
			t.Errorf("Strategy = %q, want %q", result.Strategy, domain.StrategySingleStore)
		}
		if len(result.Stores) != 1 || result.Stores[0] != "aldi" {
			t.Errorf("Stores = %v, want [aldi]", result.Stores)
		}
		if result.ItemsFound != 4 {
			t.Errorf("ItemsFound = %d, want 4", result.ItemsFound)
		}
	})

	t.Run("caches extracted recipe across calls", func(t *testing.T) {
		service, fetcher, extractor := stirFryService(t)
		req := &domain.ShoplistRequest{RecipeURL: "https://recipes.example.com/stir-fry"}

		if _, _, err := service.BuildShoplist(ctx, req); err != nil {
			t.Fatalf("first call: %v", err)
		}
		if _, _, err := service.BuildShoplist(ctx, req); err != nil {
			t.Fatalf("second call: %v", err)
		}

		if fetcher.calls != 1 || extractor.calls != 1 {
			t.Errorf("fetcher/extractor calls = %d/%d, want 1/1", fetcher.calls, extractor.calls)
		}
	})

	t.Run("restricts search to requested stores", func(t *testing.T) {
		service, _, _ := stirFryService(t)
		_, result, err := service.BuildShoplist(ctx, &domain.ShoplistRequest{
			RecipeURL: "https://recipes.example.com/stir-fry",
			Stores:    []string{"coles"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Stores) != 1 || result.Stores[0] != "coles" {
			t.Errorf("Stores = %v, want [coles]", result.Stores)
		}
	})

	t.Run("rejects unknown store", func(t *testing.T) {
		service, _, _ := stirFryService(t)
		_, _, err := service.BuildShoplist(ctx, &domain.ShoplistRequest{
			RecipeURL: "https://recipes.example.com/stir-fry",
			Stores:    []string{"costco"},
		})
		if !errors.Is(err, domain.ErrUnknownStore) {
			t.Errorf("error = %v, want ErrUnknownStore", err)
		}
	})

	t.Run("wraps fetch failures", func(t *testing.T) {
		service, fetcher, _ := stirFryService(t)
		fetcher.err = errors.New("connection refused")

		_, _, err := service.BuildShoplist(ctx, &domain.ShoplistRequest{
			RecipeURL: "https://recipes.example.com/unreachable",
		})
		if !errors.Is(err, domain.ErrFetchFailed) {
			t.Errorf("error = %v, want ErrFetchFailed", err)
		}
	})

	t.Run("rejects recipe without ingredients", func(t *testing.T) {
		service, _, extractor := stirFryService(t)
		extractor.recipe = &domain.Recipe{Title: "Empty", Ingredients: nil}

		_, _, err := service.BuildShoplist(ctx, &domain.ShoplistRequest{
			RecipeURL: "https://recipes.example.com/empty",
		})
		if !errors.Is(err, domain.ErrNoRecipeFound) {
			t.Errorf("error = %v, want ErrNoRecipeFound", err)
		}
	})
}

func TestOptimizeCandidates(t *testing.T) {
	service, _, _ := stirFryService(t)

	t.Run("returns error for nil request", func(t *testing.T) {
		_, err := service.OptimizeCandidates(nil)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("optimizes provided candidates", func(t *testing.T) {
		result, err := service.OptimizeCandidates(&domain.OptimizeRequest{
			Ingredients: []domain.Ingredient{{Name: "rice"}},
			Candidates: []domain.StoreCandidates{
				{"aldi": []domain.Product{{Store: "aldi", Title: "rice", Price: 2.50}}},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalCost != 2.50 {
			t.Errorf("TotalCost = %v, want 2.50", result.TotalCost)
		}
	})
}

func TestStores(t *testing.T) {
	service, _, _ := stirFryService(t)

	stores := service.Stores()
	want := []string{"coles", "woolworths", "aldi"}
	if len(stores) != len(want) {
		t.Fatalf("Stores() = %v, want %v", stores, want)
	}
	for i := range want {
		if stores[i] != want[i] {
			t.Errorf("Stores()[%d] = %q, want %q", i, stores[i], want[i])
		}
	}
}
