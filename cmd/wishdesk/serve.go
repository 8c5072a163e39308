package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Kerhoff/WishDesk/internal/api"
	"github.com/Kerhoff/WishDesk/internal/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(nil)
			if err != nil {
				return err
			}
			return serve(a)
		},
	}
}

func serve(a *app) error {
	l := a.logger
	l.WithField("api", a.cfg.APIBaseURL).Info("Starting WishDesk...")

	var gatherer prometheus.Gatherer
	if a.registry != nil {
		gatherer = a.registry
	}

	apiServer := api.NewServer(a.svc, service.NewSessions(), l, gatherer)
	httpServer := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			l.Info("Received shutdown signal...")
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		l.Infof("HTTP server listening on :%s", a.cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	l.Info("WishDesk started successfully")

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			l.Errorf("HTTP server error: %v", err)
			return err
		}
	}

	l.Info("Shutting down HTTP server...")
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	l.Info("WishDesk stopped")
	return nil
}
