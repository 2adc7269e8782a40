package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/CoderDill/chat-app-hedera/internal/api/middleware"
	"github.com/CoderDill/chat-app-hedera/internal/handlers"
	"github.com/CoderDill/chat-app-hedera/internal/ledger"
	"github.com/CoderDill/chat-app-hedera/internal/store"
)

// Options holds the dependencies of the HTTP router.
type Options struct {
	Logger      zerolog.Logger
	Chat        handlers.ChatService
	Index       store.IndexStore
	Ledger      ledger.Notifier
	Redis       *redis.Client // optional; enables rate limiting
	CORSOrigins []string
	RateLimit   middleware.RateLimiterConfig
}

// NewRouter creates and configures the HTTP router.
func NewRouter(opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(8 * 1024)) // 8KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(chimw.Recoverer)

	if opts.Redis != nil {
		limiter := middleware.NewRateLimiter(opts.Redis, opts.Logger, opts.RateLimit)
		r.Use(limiter.Middleware)
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(opts.Chat, opts.Index, opts.Ledger, opts.Redis)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)

	r.Post("/chat", h.Chat)
	r.Get("/search", h.Search)

	return r
}
