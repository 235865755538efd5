// cmd/web/main.go
//
// Domain configuration service – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Load config (conf/global.yaml + DOMAINCONF_ env overlay + Vault
//     secret resolution).
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Open the control-plane DB and log the active-domain count.
//
//  5. Build the resolution cache, the engine, and the three services.
//
//  6. Mount the API router plus the Prometheus /metrics endpoint, wrap
//     with ForceHTTPS when configured, and serve with hardened timeouts.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/domainconf/internal/api"
	"github.com/yanizio/domainconf/internal/cache"
	"github.com/yanizio/domainconf/internal/config"
	"github.com/yanizio/domainconf/internal/database"
	"github.com/yanizio/domainconf/internal/logger"
	"github.com/yanizio/domainconf/internal/middleware"
	"github.com/yanizio/domainconf/internal/resolver"
	"github.com/yanizio/domainconf/internal/server"
	"github.com/yanizio/domainconf/internal/service"
)

const serverEnvPath = "/usr/local/etc/domainconf/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Control-plane DB connect ────────────────────────────────────
	//
	db, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		logOut.Fatalf("connect control-plane DB: %v", err)
	}
	defer db.Close()
	logOut.Infow("control-plane DB online")

	// Log active-domain count as an early sanity check.
	var active int
	_ = db.Get(&active, `SELECT COUNT(*) FROM domain WHERE is_active = TRUE`)
	logOut.Infof("%d active domain(s) found", active)

	//
	// ── 2.  Engine, cache, and services ─────────────────────────────────
	//
	store := service.NewSQLStore(db)
	langs := resolver.Languages{
		Default:   cfg.Languages.Default,
		Supported: cfg.Languages.Supported,
	}
	engine := resolver.New(store, langs)

	resCache := cache.New(cfg.Cache.TTL, cfg.Cache.Enabled)
	defer resCache.Close()

	domains := service.NewDomains(store, resCache)
	configs := service.NewConfigs(store, resCache, langs)
	queries := service.NewQueries(engine, resCache)

	//
	// ── 3.  HTTP surface ────────────────────────────────────────────────
	//
	handler := api.New(domains, configs, queries, cfg.Admin.Password).Router()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.HTTP.ForceHTTPS {
		known := func(host string) bool {
			d, err := domains.GetByName(ctx, host)
			return err == nil && d.IsActive
		}
		mux.Handle("/", middleware.ForceHTTPS(known, handler))
	} else {
		mux.Handle("/", handler)
	}

	srv := server.New(cfg.HTTP.ListenAddr, mux)
	logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}
