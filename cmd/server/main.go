package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/menulens/backend/config"
	"github.com/menulens/backend/internal/app"
	httpDelivery "github.com/menulens/backend/internal/delivery/http"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFile(os.Getenv("MENULENS_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MenuLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache: type=%s dir=%s periods_ttl=%s items_ttl=%s",
		cfg.Cache.Type, cfg.Cache.Dir, cfg.Cache.PeriodsTTL, cfg.Cache.ItemsTTL)
	log.Printf("Dining API: %s (account %s, tenant %s)", cfg.Vendor.BaseURL, cfg.Vendor.AccountID, cfg.Vendor.TenantID)
	log.Printf("Locations: %d, max fan-out: %d (0 = unbounded)", len(cfg.Locations), cfg.Aggregator.MaxConcurrency)

	menuService := app.NewMenuService(cfg)

	// Warm today's menu
	go menuService.Load(context.Background(), time.Now())

	handler := httpDelivery.NewHandler(menuService)
	router := httpDelivery.SetupRouter(cfg, handler)

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
