// Package proxy is the development-time stand-in for a same-origin API: it
// forwards the platform's versioned API path to a real Fineract instance so
// the client's no-external-base fallback works on a developer machine.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BenyThomas/mtm-sub002/internal/gateway"
	"github.com/BenyThomas/mtm-sub002/internal/platform/requestcontext"
)

// Option configures the proxy handler.
type Option func(*proxyConfig)

type proxyConfig struct {
	metrics *Metrics
}

// WithMetrics enables the proxied-request counter and the /metrics endpoint.
func WithMetrics(m *Metrics) Option {
	return func(c *proxyConfig) {
		c.metrics = m
	}
}

// New builds the proxy router: the platform API path reverse-proxied to
// upstream, plus /health and (when metrics are enabled) /metrics.
func New(upstream *url.URL, logger *slog.Logger, opts ...Option) http.Handler {
	cfg := &proxyConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	rp := httputil.NewSingleHostReverseProxy(upstream)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.ErrorContext(r.Context(), "upstream unreachable",
			"error", err,
			"path", r.URL.Path,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"errors":[{"defaultUserMessage":"Platform is unreachable"}]}`))
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recovery(logger))
	r.Use(AccessLog(logger, cfg.metrics))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}
	r.Handle(gateway.APIPath+"/*", rp)
	r.Handle(gateway.APIPath, rp)

	return r
}
