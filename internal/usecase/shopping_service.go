package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shoplist/backend/internal/domain"
)

var cacheKeyCleanRegex = regexp.MustCompile(`[^a-z0-9:/._-]`)

// ShoppingServiceConfig holds configuration for the shopping service
type ShoppingServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// ShoppingService runs the full pipeline: fetch the recipe page, extract and
// normalize ingredients, search every store catalog, and hand the candidates
// to the optimizer. The optimizer itself stays pure; all I/O lives here.
type ShoppingService struct {
	fetcher    domain.PageFetcher
	extractor  domain.RecipeExtractor
	normalizer domain.IngredientNormalizer
	catalogs   []domain.StoreCatalog
	cache      domain.CacheRepository
	optimizer  *ShoppingOptimizer

	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewShoppingService creates a shopping service with its collaborators
func NewShoppingService(
	fetcher domain.PageFetcher,
	extractor domain.RecipeExtractor,
	normalizer domain.IngredientNormalizer,
	catalogs []domain.StoreCatalog,
	cache domain.CacheRepository,
	optimizer *ShoppingOptimizer,
	config ShoppingServiceConfig,
) *ShoppingService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ShoppingService{
		fetcher:            fetcher,
		extractor:          extractor,
		normalizer:         normalizer,
		catalogs:           catalogs,
		cache:              cache,
		optimizer:          optimizer,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// BuildShoplist resolves a recipe URL into an optimized shopping allocation.
// Flow: cache -> fetch page -> AI extraction -> normalize -> store search -> optimize.
func (s *ShoppingService) BuildShoplist(
	ctx context.Context,
	req *domain.ShoplistRequest,
) (*domain.Recipe, *domain.OptimizationResult, error) {
	if req == nil || req.RecipeURL == "" {
		return nil, nil, domain.ErrInvalidRequest
	}

	recipe, err := s.resolveRecipe(ctx, req.RecipeURL)
	if err != nil {
		return nil, nil, err
	}

	ingredients, err := s.normalizer.NormalizeIngredients(ctx, recipe.Ingredients)
	if err != nil {
		return nil, nil, fmt.Errorf("normalizing ingredients: %w", err)
	}

	catalogs, err := s.selectCatalogs(req.Stores)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := s.searchStores(ctx, ingredients, catalogs)
	if err != nil {
		return nil, nil, err
	}

	result := s.optimizer.Optimize(ingredients, candidates)

	if s.enableDebugLogging {
		logger.Debug().
			Str("recipe", recipe.Title).
			Str("strategy", result.Strategy).
			Float64("total", result.TotalCost).
			Int("found", result.ItemsFound).
			Int("total_items", result.ItemsTotal).
			Msg("built shoplist")
	}

	return recipe, &result, nil
}

// OptimizeCandidates runs the optimizer directly over caller-provided
// candidates, skipping the recipe pipeline entirely.
func (s *ShoppingService) OptimizeCandidates(
	req *domain.OptimizeRequest,
) (*domain.OptimizationResult, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}

	result := s.optimizer.Optimize(req.Ingredients, req.Candidates)
	return &result, nil
}

// Stores lists the identifiers of the configured store catalogs
func (s *ShoppingService) Stores() []string {
	stores := make([]string, 0, len(s.catalogs))
	for _, catalog := range s.catalogs {
		stores = append(stores, catalog.Store())
	}
	return stores
}

// resolveRecipe returns the extracted recipe for a URL, consulting the cache
// before fetching and running extraction.
func (s *ShoppingService) resolveRecipe(ctx context.Context, url string) (*domain.Recipe, error) {
	cacheKey := recipeCacheKey(url)

	if value, err := s.cache.Get(ctx, cacheKey); err == nil {
		if recipe, ok := value.(*domain.Recipe); ok {
			if s.enableDebugLogging {
				logger.Debug().Str("url", url).Msg("recipe cache hit")
			}
			return recipe, nil
		}
	}

	content, err := s.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	recipe, err := s.extractor.ExtractRecipe(ctx, content, url)
	if err != nil {
		return nil, err
	}
	if len(recipe.Ingredients) == 0 {
		return nil, domain.ErrNoRecipeFound
	}

	if err := s.cache.Set(ctx, cacheKey, recipe, s.cacheTTL); err != nil {
		logger.Warn().Err(err).Str("url", url).Msg("failed to cache recipe")
	}

	return recipe, nil
}

// selectCatalogs filters the configured catalogs to the requested subset.
// An empty request means all configured stores.
func (s *ShoppingService) selectCatalogs(stores []string) ([]domain.StoreCatalog, error) {
	if len(stores) == 0 {
		return s.catalogs, nil
	}

	byStore := make(map[string]domain.StoreCatalog, len(s.catalogs))
	for _, catalog := range s.catalogs {
		byStore[catalog.Store()] = catalog
	}

	selected := make([]domain.StoreCatalog, 0, len(stores))
	for _, store := range stores {
		catalog, ok := byStore[strings.ToLower(store)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStore, store)
		}
		selected = append(selected, catalog)
	}
	return selected, nil
}

// searchStores fans out catalog lookups, one goroutine per store. Each
// goroutine owns its store's column of results, so assembly after Wait needs
// no locking. A store that returns no products for an ingredient simply
// leaves that slot absent.
func (s *ShoppingService) searchStores(
	ctx context.Context,
	ingredients []domain.Ingredient,
	catalogs []domain.StoreCatalog,
) ([]domain.StoreCandidates, error) {
	columns := make([][][]domain.Product, len(catalogs))

	g, gctx := errgroup.WithContext(ctx)
	for ci, catalog := range catalogs {
		g.Go(func() error {
			column := make([][]domain.Product, len(ingredients))
			for ii, ingredient := range ingredients {
				products, err := catalog.LookupCandidates(gctx, ingredient.Name)
				if err != nil {
					return fmt.Errorf("searching %s for %q: %w", catalog.Store(), ingredient.Name, err)
				}
				column[ii] = products
			}
			columns[ci] = column
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]domain.StoreCandidates, len(ingredients))
	for ii := range ingredients {
		perStore := domain.StoreCandidates{}
		for ci, catalog := range catalogs {
			if products := columns[ci][ii]; len(products) > 0 {
				perStore[catalog.Store()] = products
			}
		}
		candidates[ii] = perStore
	}
	return candidates, nil
}

// recipeCacheKey normalizes a URL into a stable cache key
func recipeCacheKey(url string) string {
	key := strings.ToLower(strings.TrimSpace(url))
	key = cacheKeyCleanRegex.ReplaceAllString(key, "")
	return "recipe:" + key
}
