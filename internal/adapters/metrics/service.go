package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/ports"
)

// Service bundles a recorder with its scrape listener. With an empty
// address the recorder is a Noop and Serve returns immediately.
type Service struct {
	ports.Metrics

	registry *prom.Registry
	addr     string
}

// NewService creates a Service for addr.
func NewService(addr string) *Service {
	if addr == "" {
		return &Service{Metrics: Noop{}}
	}
	reg := prom.NewRegistry()
	return &Service{
		Metrics:  NewPrometheusRecorder(reg),
		registry: reg,
		addr:     addr,
	}
}

// Serve exposes /metrics until ctx is done. It blocks; run it in its own
// goroutine alongside the build.
func (s *Service) Serve(ctx context.Context, log ports.Logger) error {
	if s.registry == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.With(zerr.Wrap(err, "metrics listener failed"), "addr", s.addr)
	}
	return nil
}
