package api

import (
	"time"

	"github.com/Project-Sylos/Helodata/internal/api/handlers"
	"github.com/Project-Sylos/Helodata/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router represents the HTTP API router
type Router struct {
	h *sdk.Helodata
}

// NewRouter creates a new API router
func NewRouter(h *sdk.Helodata) *Router {
	return &Router{h: h}
}

// SetupRoutes configures all API routes using modular handlers
func (r *Router) SetupRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Standard middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Timeout(60 * time.Second))

	systemHandler := handlers.NewSystemHandler(r.h)
	blockHandler := handlers.NewBlockHandler(r.h)
	runHandler := handlers.NewRunHandler(r.h)

	router.Get("/health", systemHandler.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/blocks", func(blocks chi.Router) {
			blocks.Get("/{index}", blockHandler.GetBlock)
			blocks.Get("/{index}/info", blockHandler.GetBlockInfo)
		})

		api.Post("/generate", runHandler.Generate)

		api.Route("/runs", func(runs chi.Router) {
			runs.Get("/", runHandler.ListRuns)
			runs.Get("/{id}", runHandler.GetRun)
			runs.Get("/{id}/blocks", runHandler.GetRunBlocks)
			runs.Get("/{id}/blocks/{index}", runHandler.GetRunBlock)
		})

		// System operations
		api.Post("/reset", systemHandler.Reset)
		api.Get("/config", systemHandler.GetConfig)
		api.Get("/tables", systemHandler.GetTables)
	})

	return router
}
