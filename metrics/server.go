package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const httpServerReadHeaderTimeout = 5 * time.Second

// PrometheusServer serves a registry on /metrics until its context is cancelled.
type PrometheusServer struct {
	listenAddress string
	gatherer      prometheus.Gatherer
	log           *slog.Logger
}

func NewPrometheusServer(listenAddress string, gatherer prometheus.Gatherer, log *slog.Logger) PrometheusServer {
	if log == nil {
		log = slog.Default()
	}
	return PrometheusServer{
		listenAddress: listenAddress,
		gatherer:      gatherer,
		log:           log,
	}
}

// Handler returns the mux serving /metrics.
func (p PrometheusServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{}))
	return mux
}

func (p PrometheusServer) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              p.listenAddress,
		Handler:           p.Handler(),
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			p.log.Error("httpServer.Shutdown", tint.Err(err))
		}
	}()

	p.log.Info("prometheus server started", slog.String("address", p.listenAddress))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	p.log.Info("prometheus server stopped")

	return nil
}
