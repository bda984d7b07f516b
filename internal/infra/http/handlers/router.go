package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nickppf/nickppf-api/internal/infra/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *zap.Logger

	Contact *ContactHandler
	Sync    *SyncHandler
	Content *ContentHandler
	Health  *HealthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/contact", cfg.Contact.Handle)

		r.Get("/sync", cfg.Sync.Handle)
		r.Post("/sync", cfg.Sync.Handle)

		r.Get("/categories", cfg.Content.Categories)
		r.Get("/subcategories", cfg.Content.Subcategories)
		r.Get("/products", cfg.Content.Products)
		r.Get("/catalogue", cfg.Content.Catalogue)
		r.Get("/articles", cfg.Content.Articles)
		r.Get("/articles/featured", cfg.Content.FeaturedArticle)
		r.Get("/articles/{slug}", cfg.Content.ArticleBySlug)
		r.Get("/about", cfg.Content.About)
		r.Get("/stats", cfg.Content.Stats)
	})

	r.Get("/assets/{id}", cfg.Content.Asset)

	return r
}
