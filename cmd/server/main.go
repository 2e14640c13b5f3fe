// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"caretrack/internal/audit"
	"caretrack/internal/jwttoken"
	"caretrack/internal/platform/config"
	"caretrack/internal/platform/httpserver"
	"caretrack/internal/platform/logger"
	"caretrack/internal/platform/metrics"
	"caretrack/internal/registry"
	"caretrack/internal/storage"
	httptransport "caretrack/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Store
	if cfg.PostgresDSN != "" {
		pg, err := storage.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("failed to prepare schema", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
	} else {
		log.Warn("CARETRACK_POSTGRES_DSN not set, using in-memory store")
		store = storage.NewMemory()
	}

	m := metrics.New()
	recorder := audit.NewRecorder(store, log)
	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTPrincipal, cfg.JWTTTL)
	reg := registry.New(store, log, m, recorder)
	handler := httptransport.NewHandler(reg, tokens, log)
	router := httptransport.NewRouter(handler, tokens, cfg, log, m)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return recorder.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting caretrack", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("caretrack stopped")
}
