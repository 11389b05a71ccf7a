// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telekom/exception-notifier/pkg/metrics"
	"github.com/telekom/exception-notifier/pkg/middleware"
	"github.com/telekom/exception-notifier/pkg/notifier"
	"github.com/telekom/exception-notifier/pkg/system"
)

const shutdownTimeout = 10 * time.Second

// NewDemoEngine returns a gin engine whose failures are reported through
// reporter. /panic panics, /error fails with a 500 and /metrics serves the
// notifier counters.
func NewDemoEngine(reporter middleware.Reporter, log *zap.Logger, reportErrors, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		system.RequestLogger(log.Sugar()),
		middleware.GinRecovery(reporter, log.Sugar(), reportErrors),
	)

	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))
	engine.GET("/panic", func(c *gin.Context) {
		panic(fmt.Sprintf("demo panic requested by %s", c.ClientIP()))
	})
	engine.GET("/error", func(c *gin.Context) {
		_ = c.Error(errors.New("demo handler failure"))
		c.String(http.StatusInternalServerError, "demo handler failure")
	})

	return engine
}

func NewDemoCommand() *cobra.Command {
	var (
		addr         string
		reportErrors bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve an HTTP endpoint whose panics are reported by email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			log := rt.Logger()

			cfg, err := rt.loadConfiguration()
			if err != nil {
				return err
			}
			if err := notifier.ConfigureWith(cfg, notifier.WithLogger(log)); err != nil {
				return err
			}
			defer notifier.Destroy()

			engine := NewDemoEngine(middleware.ProcessNotifier, rt.log, reportErrors, rt.debug)
			srv := &http.Server{
				Addr:              addr,
				Handler:           engine,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, srv, log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", getEnvString("EXCEPTION_NOTIFIER_DEMO_ADDRESS", "127.0.0.1:8080"), "Address the demo server listens on")
	cmd.Flags().BoolVar(&reportErrors, "report-errors", true, "Also report requests failing with a 5xx status")

	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log *zap.SugaredLogger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("Demo server listening", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Infow("Shutting down demo server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down demo server: %w", err)
	}
	return nil
}
