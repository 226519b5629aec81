package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Project-Sylos/Helodata/internal/api"
	"github.com/Project-Sylos/Helodata/internal/config"
	"github.com/Project-Sylos/Helodata/sdk"
)

func main() {
	fmt.Println("Helodata API Server")
	fmt.Println("===================")

	h, err := open()
	if err != nil {
		log.Fatalf("Failed to initialize Helodata: %v", err)
	}

	cfg := h.GetConfig()
	fmt.Printf("Block layout: %d x %d bytes, catalog enabled: %t\n", cfg.Block.BlockCount, cfg.Block.BlockSize, h.CatalogEnabled())

	server := api.NewServer(h, &cfg.API)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		<-sigChan
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			log.Printf("Error shutting down: %v", err)
		}
		close(done)
	}()

	addr := server.Addr()
	fmt.Printf("Starting HTTP server on %s\n", addr)
	fmt.Printf("API endpoints available at http://%s/api/v1/\n", addr)
	fmt.Printf("Health check available at http://%s/health\n", addr)
	fmt.Println("Press Ctrl+C to stop the server")

	if err := server.Start(); err != nil {
		h.Close()
		log.Fatalf("Failed to start server: %v", err)
	}

	<-done
	fmt.Println("Server shutdown complete")
}

// open loads the config named by the first argument, or the defaults with an
// in-memory run catalog when none is given
func open() (*sdk.Helodata, error) {
	if len(os.Args) > 1 {
		fmt.Printf("Loading configuration from: %s\n", os.Args[1])
		return sdk.New(os.Args[1])
	}

	cfg := config.DefaultConfig()
	cfg.Catalog.Enabled = true
	cfg.Catalog.DBPath = ""
	return sdk.NewWithConfig(&cfg)
}
