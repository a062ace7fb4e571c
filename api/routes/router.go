package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terryberlin/carbonmenu/api/controllers"
	"github.com/terryberlin/carbonmenu/api/middleware"
	"github.com/terryberlin/carbonmenu/internal/catalog"
	"github.com/terryberlin/carbonmenu/internal/resolve"
	"github.com/terryberlin/carbonmenu/pkg/config"
	"github.com/terryberlin/carbonmenu/pkg/logger"
	"github.com/terryberlin/carbonmenu/pkg/metrics"
	"github.com/terryberlin/carbonmenu/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	cat *catalog.Index,
	eng *resolve.Engine,
	redisClient *redis.Client,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	qm := metrics.NewQuoteMetrics(registry)

	var cache redis.QuoteCache
	if redisClient != nil {
		cache = redisClient
	}
	var pinger redis.Pinger
	if redisClient != nil {
		pinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pinger))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/items", controllers.MenuItems(cat, logg))
			r.Get("/items/{id}", controllers.MenuItem(cat, logg))
			r.Get("/categories", controllers.MenuCategories(cat, logg))
			r.Get("/discounts", controllers.MenuDiscounts(cat, logg))
			r.Get("/pricing", controllers.MenuPricing(cat, logg))
		})
		r.Post("/quote", controllers.QuoteResolve(eng, cache, qm, cfg, logg))
		r.Post("/quote/discounts", controllers.QuoteDiscounts(eng, qm, logg))
	})

	return r
}
