package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stanzixinwan/del-game/internal/api/handlers"
	mw "github.com/stanzixinwan/del-game/internal/api/middleware"
	"github.com/stanzixinwan/del-game/internal/buildconfig"
	"github.com/stanzixinwan/del-game/internal/config"
	"github.com/stanzixinwan/del-game/internal/engine"
	"go.uber.org/zap"
)

// App holds the router and the live-feed hub for lifecycle management.
type App struct {
	Router       *chi.Mux
	Live         *handlers.LiveHub
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(world *engine.World, hub *handlers.LiveHub, logger *zap.Logger) *App {
	worldHandler := handlers.NewWorldHandler(world)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Live:      hub,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	r.Get("/health", healthHandler())
	r.Get("/metrics", app.metricsHandler())

	// Observer API (read-only)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", worldHandler.State)
		r.Get("/agents", worldHandler.Agents)
		r.Get("/agents/{id}", worldHandler.AgentByID)
		r.Get("/events", worldHandler.Events)
		r.Get("/live", hub.Serve)
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(world *engine.World, hub *handlers.LiveHub, logger *zap.Logger) *chi.Mux {
	return NewApp(world, hub, logger).Router
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"version": buildconfig.Version(),
			"commit":  buildconfig.Commit(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
