package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"terravista/api/analytics"
	"terravista/api/database"
	"terravista/api/export"
	"terravista/api/geoserver"
	"terravista/api/handlers"
	"terravista/api/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Backing stores ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	mongoClient, err := database.NewMongoDB()
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB document store: %v", err)
	}
	defer mongoClient.Close()

	userStore := store.NewUserStore(dbClient.DB)
	sessionStore := store.NewSessionStore(mongoClient)
	metricsStore := store.NewMetricsStore(chClient, sessionStore)

	// --- Components ---
	gsClient := geoserver.NewClientFromEnv()
	aggregator := analytics.NewAggregator(metricsStore, analytics.DefaultStaleness)
	exporter := export.NewExporter(gsClient)

	r := newRouter(routeHandlers{
		auth:      handlers.NewAuthHandlers(userStore, sessionStore),
		geo:       handlers.NewGeoServerHandlers(gsClient),
		analytics: handlers.NewAnalyticsHandlers(aggregator),
		export:    handlers.NewExportHandlers(exporter),
		search:    handlers.NewSearchHandlers(),
		track:     handlers.NewTrackHandlers(sessionStore),
		settings:  handlers.NewSettingsHandlers(sessionStore),
	}, sessionStore, metricsStore)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("TerraVista API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
