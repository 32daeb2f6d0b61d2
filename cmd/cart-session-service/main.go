// Package main boots the CocoGuard cart session service HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cocoguard/cart-session-service/internal/audit"
	"github.com/cocoguard/cart-session-service/internal/cart"
	"github.com/cocoguard/cart-session-service/internal/catalog"
	"github.com/cocoguard/cart-session-service/internal/checkout"
	"github.com/cocoguard/cart-session-service/internal/config"
	httpapi "github.com/cocoguard/cart-session-service/internal/http"
	"github.com/cocoguard/cart-session-service/internal/metrics"
	"github.com/cocoguard/cart-session-service/internal/obs"
	"github.com/cocoguard/cart-session-service/internal/prices"
	"github.com/cocoguard/cart-session-service/internal/storage"
)

func newBackend(ctx context.Context, cfg config.Config) (storage.Backend, func()) {
	switch cfg.StorageKind {
	case "postgres":
		pg, err := storage.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			obs.Logger.Fatalw("postgres_connect_failed", "error", err)
		}
		return pg, pg.Close
	case "file":
		fb, err := storage.NewFile(cfg.StorageDir)
		if err != nil {
			obs.Logger.Fatalw("storage_dir_unavailable", "dir", cfg.StorageDir, "error", err)
		}
		return fb, func() {}
	default:
		return storage.NewMemory(), func() {}
	}
}

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Infow("service_starting", "storage", cfg.StorageKind)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, closeBackend := newBackend(ctx, cfg)
	defer closeBackend()
	adapter := storage.NewAdapter(cfg.CartNamespace, backend)

	publisher := audit.NewPublisher(cfg.KafkaBrokers, cfg.AuditTopic, cfg.AuditQueueBuffer)
	publisher.Start(ctx)
	defer publisher.Close()

	carts := cart.NewRegistry(adapter, publisher)
	ps := prices.New()
	cat := catalog.NewClient(cfg.CatalogBaseURL)
	co := checkout.NewClient(cfg.CheckoutBaseURL)
	m := metrics.New()

	app := httpapi.NewApp(cfg, carts, ps, cat, co, publisher, m)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Infow("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Errorw("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Infow("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Errorw("http_shutdown_error", "error", err)
	}

	publisher.CloseIntake()
	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := publisher.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warnw("audit_drain_timeout")
	} else {
		obs.Logger.Infow("audit_drain_complete")
	}

	obs.Logger.Infow("service_stopped")
}
