package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/httpapi"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/judge"
	"github.com/HendryAvila/rapport/internal/metrics"
	rapportserver "github.com/HendryAvila/rapport/internal/server"
	"github.com/HendryAvila/rapport/internal/templates"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(flags)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			// Without a metrics listener there is nowhere to read counters
			// from, so the server runs uninstrumented.
			var m *metrics.Metrics
			if metricsAddr != "" {
				promReg := newProcessRegistry()
				m = metrics.New(promReg)
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           metricsHandler(promReg),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					logger.Info("metrics listening", zap.String("addr", metricsAddr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server", zap.Error(err))
					}
				}()
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(ctx)
				}()
			}

			s, cleanup, err := rapportserver.New(cfg, m, logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			// stdout carries the protocol; logs go to stderr.
			return server.ServeStdio(s)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (disabled when empty)")
	return cmd
}

// newProcessRegistry returns a registry preloaded with the Go runtime and
// process collectors.
func newProcessRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// metricsHandler exposes reg at /metrics.
func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

func newHTTPCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Start the stateless HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(flags)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			reg, err := instruments.NewRegistry()
			if err != nil {
				return fmt.Errorf("loading item banks: %w", err)
			}
			renderer, err := templates.NewRenderer()
			if err != nil {
				return fmt.Errorf("creating template renderer: %w", err)
			}

			promReg := newProcessRegistry()
			h := httpapi.New(reg, judge.NewBuilder(reg, renderer), coverage.NewKeywordClassifier(), httpapi.Options{
				MinHits:  cfg.MinHits,
				Metrics:  metrics.New(promReg),
				Gatherer: promReg,
				Logger:   logger,
			})

			srv := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           h.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return listenAndShutdown(cmd.Context(), srv, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// listenAndShutdown serves until SIGINT/SIGTERM or ctx is done, then
// drains in-flight requests.
func listenAndShutdown(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http api listening", zap.String("addr", srv.Addr), zap.String("version", rapportserver.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down http api")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
