// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"url-shortener-web/internal/client"
	"url-shortener-web/internal/config"
	"url-shortener-web/internal/handler"
	"url-shortener-web/internal/service"
	"url-shortener-web/internal/session"
	customLogger "url-shortener-web/pkg/logger"
)

func main() {
	// Simple health check for Docker - just make HTTP request to existing server
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "3000"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/health", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load environment variables from .env file (development only)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Initialize structured logger
	appLogger := customLogger.NewLogger()
	defer appLogger.Sync()
	appLogger.Info("Starting URL Shortener web client")

	// Load application configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("Failed to load configuration", "error", err)
	}

	// Initialize session store
	sessions := initSessionStore(cfg, appLogger)

	// Remote link service and the flows built on it
	links := client.New(cfg.APIURL, client.Options{
		Timeout:       cfg.APITimeout,
		RatePerSecond: cfg.APIRatePerSec,
	})
	resolver := service.NewResolver(links, appLogger)
	submitter := service.NewSubmitter(links, appLogger)

	pages := handler.NewPageHandler(resolver, submitter, sessions, cfg, appLogger)

	router, err := handler.SetupRouter(pages, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to set up router", "error", err)
	}

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   cfg.APITimeout + 15*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in a goroutine for graceful shutdown
	go func() {
		appLogger.Info("Server starting", "port", cfg.ServerPort, "api_url", cfg.APIURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	if err := sessions.Close(); err != nil {
		appLogger.Error("Error closing session store", "error", err)
	}

	appLogger.Info("Server exited successfully")
}

// initSessionStore prefers Redis and falls back to process memory
func initSessionStore(cfg *config.Config, log *customLogger.Logger) session.Store {
	if !cfg.EnableSessionStore {
		log.Info("Session store disabled, keeping sessions in memory")
		return session.NewMemoryStore()
	}

	store, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("Failed to initialize Redis session store, continuing in memory", "error", err)
		return session.NewMemoryStore()
	}

	log.Info("Redis session store connected", "addr", cfg.RedisAddr)
	return store
}
