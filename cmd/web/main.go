// cmd/web/main.go
//
// Folio – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Start the daily rotating logger (tees to console when run in a TTY).
//
//  2. Connect to Vault when VAULT_ADDR is set so `vault:` config values
//     resolve.
//
//  3. Load conf/global.yaml with env overrides.
//
//  4. Open the database and apply component migrations when a DSN is set.
//
//  5. Open the GeoIP reader when geoip.db_path is set.
//
//  6. Build the router: security headers, HTTPS redirect, request
//     enrichment, /metrics, then every registered component at its prefix.
//
//  7. Serve until SIGINT or SIGTERM, then drain.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/component"
	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/database"
	"github.com/yanizio/folio/internal/logger"
	"github.com/yanizio/folio/internal/message"
	"github.com/yanizio/folio/internal/middleware"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/server"
	"github.com/yanizio/folio/internal/vault"

	_ "github.com/yanizio/folio/components/contact"
	_ "github.com/yanizio/folio/components/gallery"
	_ "github.com/yanizio/folio/components/projects"
)

func main() {
	rootDir, _ := os.Getwd()
	if r := os.Getenv(config.EnvPrefix + "ROOT"); r != "" {
		rootDir = r
	}
	lg, err := logger.New(rootDir, logger.IsTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer lg.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, lg); err != nil {
		lg.Fatalw("folio stopped", "err", err)
	}
	lg.Infow("folio stopped")
}

func run(ctx context.Context, lg *zap.SugaredLogger) error {
	//
	// ── 1.  Secrets and configuration ──────────────────────────────────
	//
	var secrets config.SecretResolver
	if vault.Enabled() {
		vc, err := vault.New(ctx, lg, 5*time.Minute)
		if err != nil {
			return err
		}
		secrets = vc
	}

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		return err
	}

	//
	// ── 2.  Optional database ──────────────────────────────────────────
	//
	var db *sqlx.DB
	if cfg.Database.Enabled() {
		db, err = database.OpenWithOptions(ctx, cfg.Database.ResolvedDSN(),
			cfg.Database.MaxOpen, cfg.Database.MaxIdle)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := component.Migrate(ctx, db); err != nil {
			return err
		}
		lg.Infow("database online")
	}

	//
	// ── 3.  Optional GeoIP ─────────────────────────────────────────────
	//
	if p := cfg.GeoIP.DBPath; p != "" {
		if err := requestinfo.InitGeo(cfg.Paths.Abs(p)); err != nil {
			lg.Warnw("geoip disabled", "err", err)
		} else {
			defer requestinfo.CloseGeo()
		}
	}

	//
	// ── 4.  Router ─────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer)
	r.Use(middleware.Security)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(requestinfo.Enrich)
	r.Handle("/metrics", promhttp.Handler())

	deps := component.Deps{
		Config: cfg,
		DB:     db,
		Outbox: message.NewDispatcher(lg, cfg.Webhook.Timeout),
		Log:    lg,
	}
	if err := component.Mount(r, deps); err != nil {
		return err
	}

	//
	// ── 5.  Serve ──────────────────────────────────────────────────────
	//
	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, r))
}
