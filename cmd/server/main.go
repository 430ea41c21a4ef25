package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shopscout/backend/config"
	httpDelivery "github.com/shopscout/backend/internal/delivery/http"
	"github.com/shopscout/backend/internal/domain"
	"github.com/shopscout/backend/internal/infrastructure/cache"
	"github.com/shopscout/backend/internal/infrastructure/sources"
	"github.com/shopscout/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShopScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Source providers: remote store APIs first (config order), then local
	// catalogs (file-name order). Registration order is part of the result
	// contract: provider order feeds tie-breaks downstream.
	var providers []domain.SearchProvider
	for _, store := range cfg.Sources.Stores {
		client := sources.NewStoreClient(store.Name, store.BaseURL, store.APIKey, cfg.RateLimit.SourceRPS)
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}
		providers = append(providers, client)
		log.Printf("Registered store API: %s (%s)", store.Name, store.BaseURL)
	}

	if cfg.Sources.CatalogDir != "" {
		catalogs, err := sources.LoadCatalogDir(cfg.Sources.CatalogDir)
		if err != nil {
			log.Fatalf("Failed to load catalogs from %s: %v", cfg.Sources.CatalogDir, err)
		}
		for _, catalog := range catalogs {
			providers = append(providers, catalog)
			log.Printf("Registered catalog: %s", catalog.Name())
		}
	}

	if len(providers) == 0 {
		log.Printf("WARNING: no source providers configured - searches will fail")
	}

	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	searchService := usecase.NewSearchService(
		providers,
		memoryCache,
		usecase.SearchServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			MaxResults:         cfg.Matching.MaxResults,
			QualityThreshold:   cfg.Matching.QualityThreshold,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)

	log.Printf("Matching: max_results=%d, quality_threshold=%.1f, debug=%v",
		cfg.Matching.MaxResults,
		cfg.Matching.QualityThreshold,
		cfg.Matching.EnableDebugLogging)

	httpDelivery.RegisterMetrics()

	handler := httpDelivery.NewHandler(searchService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
