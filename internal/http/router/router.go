package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-courier/internal/http/handlers"
	mw "service-courier/internal/http/middleware"
	"service-courier/internal/http/middleware/ratelimit"
	"service-courier/internal/logx"
)

// Courier routes are served under both prefixes.
var courierPrefixes = [...]string{"/couriers", "/api/couriers"}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(
	logger logx.Logger,
	h *handlers.Handlers,
	courier *handlers.CourierHandler,
	limiter *ratelimit.Middleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Observability(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, prefix := range courierPrefixes {
		r.Route(prefix, func(r chi.Router) {
			// один лимитер на оба префикса
			r.Use(limiter.Handler())

			r.Get("/", courier.List)
			r.Post("/", courier.Create)
			r.Get("/{id}", courier.Get)
			r.Put("/{id}", courier.Update)
			r.Patch("/{id}", courier.Update)
			r.Delete("/{id}", courier.Delete)
		})
	}

	r.NotFound(http.HandlerFunc(h.NotFound))
	r.MethodNotAllowed(http.HandlerFunc(h.MethodNotAllowed))

	return r
}
