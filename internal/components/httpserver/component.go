package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"go.uber.org/zap"

	"github.com/grand-thief-cash/focusboard/internal/components/metrics"
	"github.com/grand-thief-cash/focusboard/internal/config"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/logging"
)

// RouteRegisterFunc mounts routes on the server router before it starts
// listening.
type RouteRegisterFunc func(r chi.Router) error

// Component runs the chi HTTP server with the shared middleware stack.
type Component struct {
	*core.BaseComponent
	cfg         *config.ServerConfig
	serviceName string
	tracing     bool
	metricsComp *metrics.Component
	router      chi.Router
	server      *http.Server
	extras      []RouteRegisterFunc
	started     bool
}

func NewComponent(cfg *config.ServerConfig, serviceName string, tracing bool, m *metrics.Component) *Component {
	deps := []string{consts.COMP_LOGGING, consts.COMP_TELEMETRY}
	if m != nil {
		deps = append(deps, consts.COMP_METRICS)
	}
	return &Component{
		BaseComponent: core.NewBaseComponent(consts.COMP_HTTP_SERVER, deps...),
		cfg:           cfg,
		serviceName:   serviceName,
		tracing:       tracing,
		metricsComp:   m,
	}
}

// AddRouteRegistrar queues a route mount; must be called before Start.
func (hc *Component) AddRouteRegistrar(fn RouteRegisterFunc) error {
	if fn == nil {
		return nil
	}
	if hc.started {
		return fmt.Errorf("cannot register route: http_server already started")
	}
	hc.extras = append(hc.extras, fn)
	return nil
}

func (hc *Component) Router() chi.Router { return hc.router }

func (hc *Component) Start(ctx context.Context) error {
	if err := hc.BaseComponent.Start(ctx); err != nil {
		return err
	}

	hc.router = chi.NewRouter()
	hc.setupMiddlewares()

	hc.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if hc.metricsComp != nil {
		hc.router.Method(http.MethodGet, hc.metricsComp.Path(), hc.metricsComp.Handler())
	}

	for _, fn := range hc.extras {
		if err := fn(hc.router); err != nil {
			return fmt.Errorf("route register failed: %w", err)
		}
	}

	hc.server = &http.Server{
		Addr:         hc.cfg.Address(),
		ReadTimeout:  hc.cfg.ReadTimeout,
		WriteTimeout: hc.cfg.WriteTimeout,
		IdleTimeout:  hc.cfg.IdleTimeout,
		Handler:      hc.router,
	}

	go func() {
		logging.Infof(ctx, "http_server listening on %s", hc.cfg.Address())
		if err := hc.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf(ctx, "http_server error: %v", err)
		}
	}()

	hc.started = true
	return nil
}

func (hc *Component) Stop(ctx context.Context) error {
	defer hc.BaseComponent.Stop(ctx)
	if !hc.started || hc.server == nil {
		return nil
	}
	timeout := hc.cfg.GracefulTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	stopCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := hc.server.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("http_server graceful shutdown failed: %w", err)
	}
	logging.Infof(ctx, "http_server stopped")
	return nil
}

func (hc *Component) HealthCheck() error {
	if err := hc.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	if !hc.started {
		return fmt.Errorf("http_server not started")
	}
	return nil
}

func (hc *Component) setupMiddlewares() {
	hc.router.Use(middleware.RequestID)
	hc.router.Use(middleware.RealIP)
	hc.router.Use(middleware.Recoverer)
	if hc.cfg.RequestTimeout > 0 {
		hc.router.Use(middleware.Timeout(hc.cfg.RequestTimeout))
	}
	if hc.tracing {
		hc.router.Use(otelchi.Middleware(hc.serviceName, otelchi.WithChiRoutes(hc.router)))
	}
	if hc.metricsComp != nil {
		hc.router.Use(hc.metricsComp.Middleware(func(r *http.Request) string {
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				return rc.RoutePattern()
			}
			return r.URL.Path
		}))
	}
	hc.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logging.WithTraceID(r.Context(), middleware.GetReqID(r.Context()))
			next.ServeHTTP(w, r.WithContext(ctx))
			logging.Info(ctx, "http_access",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote", r.RemoteAddr),
				zap.Duration("dur", time.Since(start)),
			)
		})
	})
}
