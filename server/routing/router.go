// Package routing builds the gateway's HTTP routing table from
// configuration. Routes are declared in YAML and resolved against a
// map of named handlers, so deployments can reshape paths, versions
// and per-route middleware without code changes.
package routing

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ankago/atlas/config"
	"github.com/ankago/atlas/errors"
	"github.com/ankago/atlas/server/metrics"
	"github.com/ankago/atlas/server/middleware"
)

// Router handles dynamic HTTP routing with API versioning, per-route
// middleware, header validation and method restrictions.
type Router struct {
	router   chi.Router
	handlers map[string]http.Handler
	logger   *zap.Logger
	cfg      *config.Config
}

// NewRouter creates a router from the configured route table. Handlers
// are looked up by the name each route declares; routes naming an
// unknown handler are skipped with an error log. A nil metrics
// disables the /metrics endpoint and request instrumentation.
func NewRouter(cfg *config.Config, handlers map[string]http.Handler, m *metrics.Metrics, logger *zap.Logger) *Router {
	r := &Router{
		router:   chi.NewRouter(),
		handlers: handlers,
		logger:   logger,
		cfg:      cfg,
	}

	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RequestTimer)
	r.router.Use(middleware.Recovery(logger))
	r.router.Use(middleware.CORS)
	r.router.Use(middleware.Logging(logger))
	if m != nil {
		r.router.Use(middleware.PrometheusMetrics(m))
	}

	r.setupRoutes()

	r.router.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errors.ErrorWithType(w, "route not found", errors.NotFoundError, http.StatusNotFound)
	})

	r.router.Get("/health", r.healthHandler())
	if m != nil {
		r.router.Handle("/metrics", m.Handler())
	}

	return r
}

func (r *Router) setupRoutes() {
	for _, route := range r.cfg.Routes {
		handler, ok := r.handlers[route.Handler]
		if !ok {
			r.logger.Error("handler not found", zap.String("handler", route.Handler))
			continue
		}

		path := route.Path
		if route.Version != "" {
			path = fmt.Sprintf("/%s%s", route.Version, path)
		}

		r.router.Group(func(router chi.Router) {
			for _, mw := range route.Middleware {
				switch mw {
				case "ratelimit":
					router.Use(middleware.RateLimit)
				default:
					r.logger.Warn("unknown middleware requested", zap.String("middleware", mw))
				}
			}

			if len(route.Headers) > 0 {
				router.Use(requireHeaders(route.Headers))
			}

			methods := route.Methods
			if len(methods) == 0 {
				methods = []string{http.MethodPost}
			}
			for _, method := range methods {
				router.Method(method, path, handler)
			}
		})
	}
}

// requireHeaders rejects requests missing any of the configured
// header/value pairs.
func requireHeaders(headers map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			for key, value := range headers {
				if req.Header.Get(key) != value {
					errors.ErrorWithType(w, fmt.Sprintf("missing or invalid header: %s", key),
						errors.ValidationError, http.StatusBadRequest)
					return
				}
			}
			next.ServeHTTP(w, req)
		})
	}
}

// healthHandler reports liveness. The model engine runs out of
// process, so its availability is reported through the circuit breaker
// metrics rather than this endpoint.
func (r *Router) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// ServeHTTP delegates to the underlying chi router.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
