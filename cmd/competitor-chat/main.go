package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/catalog"
	"github.com/joelkehle/competitor-analysis/internal/chatapi"
	"github.com/joelkehle/competitor-analysis/internal/config"
	"github.com/joelkehle/competitor-analysis/internal/logger"
	"github.com/joelkehle/competitor-analysis/internal/session"
	"github.com/joelkehle/competitor-analysis/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addrFlag := flag.String("addr", "", "listen address (overrides config)")
	dbFlag := flag.String("db", "", "catalog DSN (overrides config)")
	flag.Parse()

	if err := run(*configPath, *addrFlag, *dbFlag); err != nil {
		logger.Log.Error(err)
		os.Exit(1)
	}
}

// run serves until SIGINT or SIGTERM. Every resource it opens is released
// before it returns, including on error paths.
func run(configPath, addr, dsn string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if dsn != "" {
		cfg.Catalog.DSN = dsn
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	cat, err := catalog.Open(cfg.Catalog.Driver, cfg.Catalog.DSN, cfg.Catalog.SeedBuiltins)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return fmt.Errorf("catalog (%s): %w", cfg.Catalog.Driver, err)
	}
	defer cat.Close()

	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	engine := analysis.NewEngine(analysis.Options{
		Catalog:            cat,
		OpportunitiesFirst: cfg.Engine.OpportunitiesFirst,
	})
	store := session.NewStore(session.Options{Engine: engine, Catalog: cat, Seed: seed})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      chatapi.NewServer(chatapi.Options{Sessions: store, Catalog: cat, RateLimit: cfg.RateLimit}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("tracing shutdown")
		}
	}()

	logger.Log.WithFields(logrus.Fields{
		"addr":    cfg.Server.Addr,
		"catalog": cfg.Catalog.Driver,
		"records": len(cat.List()),
	}).Info("competitor-chat listening")
	serveErr := srv.ListenAndServe()
	cancel()
	<-stopped
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	return nil
}
