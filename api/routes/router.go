package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CWeait/nemlig-mcp/api/controllers"
	"github.com/CWeait/nemlig-mcp/api/middleware"
	"github.com/CWeait/nemlig-mcp/pkg/config"
	"github.com/CWeait/nemlig-mcp/pkg/logger"
)

// NewRouter assembles the HTTP surface: health probes, the Prometheus
// scrape endpoint, and the tool listing and dispatch routes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisPinger controllers.Pinger,
	registry controllers.Dispatcher,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", controllers.ListTools(registry))
		r.Post("/{name}", controllers.CallTool(registry, logg))
	})

	return r
}
