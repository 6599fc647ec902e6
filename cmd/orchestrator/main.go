// Command orchestrator runs the legal document analysis platform's
// multi-agent orchestration runtime. Wiring follows the teacher's main.go
// shutdown-signal pattern.
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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/legaldesk/orchestrator/internal/app"
	"github.com/legaldesk/orchestrator/internal/config"
	transporthttp "github.com/legaldesk/orchestrator/internal/transport/http"
)

func main() {
	cfg := config.Load()

	log.Printf("Starting orchestrator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Model endpoint: %s", cfg.ModelEndpoint)
	log.Printf("Grounded backend required: %v", cfg.UseGroundedBackend)

	container, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to wire orchestrator: %v", err)
	}
	defer container.Store.Close()

	h := transporthttp.NewHandler(container.Orchestrator, container.Store, container.Blobs, container.Codec)

	server := echo.New()
	server.HideBanner = true
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	h.RegisterRoutes(server)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Orchestrator listening on port %d", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down orchestrator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
