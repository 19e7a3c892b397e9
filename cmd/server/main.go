package main

import (
	"fmt"
	"log"
	"os"

	"github.com/storytellerz/backend/config"
	httpDelivery "github.com/storytellerz/backend/internal/delivery/http"
	"github.com/storytellerz/backend/internal/infrastructure/export"
	"github.com/storytellerz/backend/internal/infrastructure/extraction"
	"github.com/storytellerz/backend/internal/infrastructure/scraper"
	"github.com/storytellerz/backend/internal/infrastructure/searchcache"
	"github.com/storytellerz/backend/internal/infrastructure/store"
	"github.com/storytellerz/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Storytellerz Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	vendorStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open vendor store at %s: %v", cfg.Store.Path, err)
	}
	defer vendorStore.Close()
	log.Printf("Vendor store: %s", cfg.Store.Path)

	extractionClient := extraction.NewClient(cfg.Extraction.APIKey, cfg.Extraction.BaseURL, cfg.Extraction.Timeout)
	statusStream := extraction.NewStatusStream(cfg.Extraction.APIKey, cfg.Extraction.BaseURL)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" || cfg.Extraction.Debug {
		extractionClient.SetDebug(true)
		log.Printf("Extraction client debug mode enabled")
	}
	log.Printf("Extraction service: %s", cfg.Extraction.BaseURL)

	pricingScraper := scraper.New(cfg.Scraper.Timeout, cfg.Scraper.MaxItems)
	searchCache := searchcache.NewMemoryCache(cfg.Cache.TTL)
	log.Printf("Search cache TTL: %s", cfg.Cache.TTL)

	// Initialize usecase layer
	ingestionService := usecase.NewIngestionService(
		extractionClient,
		statusStream,
		vendorStore,
		pricingScraper,
		usecase.IngestionConfig{
			UploadDir: cfg.Server.UploadDir,
		},
	)
	searchService := usecase.NewSearchService(vendorStore, extractionClient, searchCache, cfg.Server.PublicBaseURL)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(
		ingestionService,
		searchService,
		usecase.NewSessionRegistry(),
		export.NewXLSXExporter(),
	)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
