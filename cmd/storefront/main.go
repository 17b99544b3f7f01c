package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/joooonis/incourserun-checkout/internal/catalog"
	"github.com/joooonis/incourserun-checkout/internal/checkout"
	"github.com/joooonis/incourserun-checkout/internal/checkout/checkoutlog"
	checkoutsqlite "github.com/joooonis/incourserun-checkout/internal/checkout/checkoutlog/sqlite"
	"github.com/joooonis/incourserun-checkout/internal/pkg/cache"
	"github.com/joooonis/incourserun-checkout/internal/pkg/telemetry"
	"github.com/joooonis/incourserun-checkout/internal/profile"
	"github.com/joooonis/incourserun-checkout/internal/storefront/infra/adapters/backend"
	"github.com/joooonis/incourserun-checkout/internal/storefront/infra/adapters/gateway"
	"github.com/joooonis/incourserun-checkout/internal/storefront/infra/httpx"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	telemetry.InitLogger()

	ctx := context.Background()
	shutdown, err := telemetry.SetupTracer(ctx, "storefront-checkout")
	if err != nil {
		log.Printf("tracing disabled: %v", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("telemetry shutdown: %v", err)
			}
		}()
	}

	httpAddr := getEnv("HTTP_ADDR", ":8080")
	backendURL := getEnv("BACKEND_URL", "http://localhost:8000")
	gatewayURL := getEnv("PG_URL", "https://api.iamport.kr")
	merchantCode := getEnv("IMP_MERCHANT_CODE", "imp61247005")
	domain := getEnv("DOMAIN", "http://localhost:3000")
	jwtSecret := []byte(getEnv("JWT_SECRET", "your-secret-key"))

	// Checkout audit log is optional: without it, only slog output remains.
	var logRepo checkoutlog.Repository
	if path := getEnv("CHECKOUT_LOG_PATH", "./data/checkout.db"); path != "" {
		repo, err := checkoutsqlite.Open(path)
		if err != nil {
			log.Printf("checkout log disabled: %v", err)
		} else {
			defer repo.Close()
			logRepo = repo
		}
	}

	var productCache cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		productCache = cache.NewRedisCache(addr, "storefront")
	}

	backendClient := backend.NewClient(backendURL, nil)
	gatewayClient := gateway.NewClient(gatewayURL, merchantCode, nil)
	catalogService := catalog.NewService(backendClient, productCache)
	profileService := profile.NewService(backendClient)

	controller := checkout.NewController(
		backendClient,
		gatewayClient,
		catalogService,
		logRepo,
		domain+"/order/payment/complete/mobile",
	)

	handler := httpx.NewHandler(catalogService, profileService, backendClient, controller)
	router := httpx.NewRouter(handler, jwtSecret)

	log.Printf("storefront checkout service running on %s", httpAddr)
	if err := http.ListenAndServe(httpAddr, router); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
