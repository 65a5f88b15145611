package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/freewrite/internal/api"
	"github.com/dgallion1/freewrite/internal/config"
	"github.com/dgallion1/freewrite/internal/editor"
	"github.com/dgallion1/freewrite/internal/metrics"
	"github.com/dgallion1/freewrite/internal/store"
	"github.com/dgallion1/freewrite/internal/suggest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(store.Config{
		Backend: cfg.StoreBackend,
		Path:    cfg.StorePath,
		URL:     cfg.PathstoreURL,
		APIKey:  cfg.PathstoreAPIKey,
		Timeout: 10 * time.Second,
	}, log)
	if err != nil {
		log.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	src, model, err := suggest.FromConfig(cfg)
	if err != nil {
		log.Error("failed to build suggestion source", "error", err)
		os.Exit(1)
	}
	stats := suggest.NewLLMStats(time.Hour)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	policy, _ := editor.ParseDeclinedPolicy(cfg.DeclinedPolicy)
	session := editor.NewSession(editor.Options{
		Source:          suggest.Timed(src, stats),
		Store:           st,
		Recorder:        m,
		Logger:          log,
		Timing:          cfg.Timing,
		Viewport:        editor.NewLineViewport(cfg.ViewportLines),
		HistoryCapacity: cfg.HistoryCapacity,
		DeclinedPolicy:  policy,
		DeclinedMax:     cfg.DeclinedMax,
	})

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := session.Load(loadCtx); err != nil {
		log.Warn("failed to restore session, starting empty", "error", err)
	}
	cancel()

	srv := api.NewServer(api.Deps{
		Session:  session,
		Stats:    stats,
		Metrics:  m,
		Gatherer: reg,
		Model:    model,
	}, cfg, log)

	// Staging runs animate inside the request, so writes get a long deadline.
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 10*time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting freewrite", "port", cfg.Port, "provider", cfg.Provider, "model", model, "store", cfg.StoreBackend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	// Graceful shutdown.
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if c, ok := src.(interface{ Close() }); ok {
		c.Close()
	}
	if cerr := st.Close(); cerr != nil {
		log.Error("failed to close store", "error", cerr)
	}
	if err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
