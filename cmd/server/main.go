package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/shoplist/backend/config"
	httpDelivery "github.com/shoplist/backend/internal/delivery/http"
	"github.com/shoplist/backend/internal/domain"
	"github.com/shoplist/backend/internal/infrastructure/ai"
	"github.com/shoplist/backend/internal/infrastructure/billstore"
	"github.com/shoplist/backend/internal/infrastructure/cache"
	"github.com/shoplist/backend/internal/infrastructure/catalog"
	"github.com/shoplist/backend/internal/infrastructure/webfetch"
	"github.com/shoplist/backend/internal/usecase"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "shoplist-backend").Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("ai_provider", cfg.AI.Provider).
		Msg("starting shoplist backend")

	// Infrastructure layer
	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	provider, err := ai.NewProvider(ai.Config{
		Provider:    cfg.AI.Provider,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		BaseURL:     cfg.AI.BaseURL,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize AI provider")
	}

	fetcher := webfetch.NewFetcher(webfetch.Config{
		Timeout:           cfg.Fetcher.Timeout,
		RequestsPerSecond: cfg.Fetcher.RequestsPerSecond,
		UserAgent:         cfg.Fetcher.UserAgent,
	})

	storeConfigs := catalog.DefaultStores()

	bills, err := billstore.NewFileStore(cfg.Bills.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize bill store")
	}

	// Usecase layer
	optimizer := usecase.NewShoppingOptimizer(usecase.OptimizerConfig{
		TravelCostPerStore: cfg.Optimizer.TravelCostPerStore,
		StoreOrder:         catalog.StoreIDs(storeConfigs),
		EnableDebugLogging: cfg.Optimizer.DebugLogging,
	})

	// AI normalization first, rule-based parsing when the provider fails
	normalizer := usecase.NewFallbackNormalizer(
		provider,
		usecase.NewRuleIngredientNormalizer(cfg.Optimizer.DebugLogging),
	)

	shoppingService := usecase.NewShoppingService(
		fetcher,
		provider,
		normalizer,
		buildCatalogs(storeConfigs),
		memoryCache,
		optimizer,
		usecase.ShoppingServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: cfg.Optimizer.DebugLogging,
		},
	)

	billService := usecase.NewBillService(bills, usecase.BillServiceConfig{
		Currency:          cfg.Bills.Currency,
		TaxRate:           cfg.Bills.TaxRate,
		StoreDisplayNames: catalog.DisplayNames(storeConfigs),
	})

	// HTTP delivery
	handler := httpDelivery.NewHandler(shoppingService, billService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

// buildCatalogs creates one mock catalog per configured store
func buildCatalogs(stores []catalog.StoreConfig) []domain.StoreCatalog {
	catalogs := make([]domain.StoreCatalog, 0, len(stores))
	for _, store := range stores {
		catalogs = append(catalogs, catalog.NewMockCatalog(store))
	}
	return catalogs
}
