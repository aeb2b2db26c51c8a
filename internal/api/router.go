// Package api serves terrain-aware path searches over HTTP and WebSocket.
//
// The router is built once by NewRouter and reads the current terrain from
// a route.Planner on every request, so PUT /api/grid swaps terrain without
// disturbing searches already running against the old grid.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/terrapath/overlay"
	"github.com/katalvlaran/terrapath/route"
)

// Limits applied when RouterConfig leaves them zero.
const (
	DefaultSearchTimeout = 5 * time.Second
	DefaultMaxGridBytes  = 64 << 20
	DefaultMaxStreams    = 64
)

// RouterConfig contains everything needed to construct the HTTP router.
//
// Example usage in tests:
//
//	pl, _ := route.NewPlanner(route.Config{SurfaceWidth: 800, SurfaceHeight: 600, Params: astar.DefaultParams()})
//	router := api.NewRouter(api.RouterConfig{Planner: pl, DisableLogging: true})
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Planner holds the terrain and the default search parameters (required).
	Planner *route.Planner

	// SearchTimeout bounds every search; 0 takes DefaultSearchTimeout,
	// a negative value disables the timeout.
	SearchTimeout time.Duration

	// MaxGridBytes bounds PUT /api/grid bodies; 0 takes DefaultMaxGridBytes.
	MaxGridBytes int64

	// MaxStreams bounds concurrent /api/ws connections; 0 takes DefaultMaxStreams.
	MaxStreams int

	// MaxOverlayPixels bounds the GET /api/overlay.png image (W·H·scale²);
	// 0 takes overlay.DefaultMaxPixels.
	MaxOverlayPixels int64

	// RateLimiter is an optional pre-configured limiter. If nil, one is
	// created from RateLimitConfig, or DefaultRateLimitConfig if that is nil too.
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig

	// CORSOrigins lists allowed origins for CORS and the WebSocket origin
	// check. If nil, only localhost is allowed.
	CORSOrigins []string

	// DisableLogging turns off the request logger (benchmarks, tests).
	DisableLogging bool
}

// NewRouter constructs the HTTP router with all middleware and routes.
// It starts no goroutines and opens no listeners.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Planner == nil {
		panic("api: NewRouter(nil Planner)")
	}
	r := chi.NewRouter()

	// Middleware: order matters.
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS so abusive clients are rejected early.
	limiter := cfg.RateLimiter
	if limiter == nil {
		rlc := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlc = *cfg.RateLimitConfig
		}
		limiter = NewIPRateLimiter(rlc)
	}
	r.Use(limiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := newHandlers(cfg, origins)

	r.Route("/api", func(r chi.Router) {
		// Terrain
		r.Get("/grid", h.handleGetGrid)
		r.Put("/grid", h.handlePutGrid)

		// Searches
		r.Post("/path", h.handlePath)
		r.Post("/route", h.handleRoute)
		r.Get("/reachable", h.handleReachable)
		r.Get("/overlay.png", h.handleOverlay)
		r.Get("/ws", h.handleStream)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handlers carries the per-router state shared by every handler.
type handlers struct {
	planner   *route.Planner
	timeout   time.Duration
	maxBytes  int64
	maxPixels int64
	streams   *streamLimiter
	upgrader  websocket.Upgrader
}

func newHandlers(cfg RouterConfig, origins []string) *handlers {
	h := &handlers{
		planner:  cfg.Planner,
		timeout:  cfg.SearchTimeout,
		maxBytes: cfg.MaxGridBytes,
	}
	if h.timeout == 0 {
		h.timeout = DefaultSearchTimeout
	}
	if h.maxBytes <= 0 {
		h.maxBytes = DefaultMaxGridBytes
	}
	h.maxPixels = cfg.MaxOverlayPixels
	if h.maxPixels <= 0 {
		h.maxPixels = overlay.DefaultMaxPixels
	}
	maxStreams := cfg.MaxStreams
	if maxStreams <= 0 {
		maxStreams = DefaultMaxStreams
	}
	h.streams = &streamLimiter{max: int32(maxStreams)}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if originAllowed(r.Header.Get("Origin"), origins) {
				return true
			}
			recordRejected("origin")
			return false
		},
	}
	return h
}
