package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nickppf/nickppf-api/internal/infra/http/handlers"
	"github.com/nickppf/nickppf-api/internal/infra/worker"
	"github.com/nickppf/nickppf-api/internal/usecase"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx, appOptions{queue: true})
	if err != nil {
		return err
	}
	defer a.close()

	log := a.logger

	if w := a.notificationWorker(); w != nil {
		if err := w.Start(ctx); err != nil {
			return err
		}
	}

	syncUC := a.syncOrdersUseCase()
	if a.cfg.Sync.Interval > 0 {
		go worker.NewSyncWorker(syncUC, a.cfg.Sync.Interval, log).Start(ctx)
	}

	limiter := handlers.NewRateLimiter(10, time.Minute) // 10 req/min por IP
	go limiter.Cleanup(ctx, 10*time.Minute)

	content := usecase.NewContentService(a.directus, a.cfg.ContentCacheTTL, log)

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: a.cfg.AllowedOrigins,
		Logger:         log,
		Contact:        handlers.NewContactHandler(a.submitLeadUseCase(), limiter, log),
		Sync:           handlers.NewSyncHandler(syncUC, a.cfg.Sync.Token, log),
		Content:        handlers.NewContentHandler(content, a.directus.FileURL, log),
		Health:         handlers.NewHealthHandler(Version, a.healthChecks()),
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// o sync percorre a planilha inteira
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🔥 server rodando", zap.String("addr", srv.Addr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("desligando server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
