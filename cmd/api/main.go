package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "real_estate/internal/adapters/http_server"
	"real_estate/internal/adapters/observability"
	redisad "real_estate/internal/adapters/redis"
	"real_estate/internal/adapters/supabase"
	"real_estate/internal/app"
	"real_estate/internal/domain"
	"real_estate/internal/shared"
	mysqlrepo "real_estate/internal/storage/mysql"
)

// disabledAuth stands in when no service key is configured.
type disabledAuth struct{}

var errAuthDisabled = errors.New("staff management requires SUPABASE_SERVICE_KEY")

func (disabledAuth) CreateUser(context.Context, string, string, map[string]any) (string, error) {
	return "", errAuthDisabled
}

func (disabledAuth) DeleteUser(context.Context, string) error { return errAuthDisabled }

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// cache
	var cache domain.Cache = redisad.Nop{}
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, statistics will not be cached")
		}
		cancel()
		cache = rc
	}

	// auth provider
	if cfg.JWTSecret == "" {
		log.Warn().Msg("SUPABASE_JWT_SECRET not set; every authenticated route will answer 401")
	}

	var auth domain.AuthProvider = disabledAuth{}
	if cfg.SupabaseKey != "" {
		sc, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.AuthRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("supabase client")
		}
		auth = sc
	}

	// deps
	repo := mysqlrepo.New(db)
	accounts := app.NewAccountService(repo, auth, cache)
	handlers := &server.Handlers{
		Reporting:    app.NewReportingService(repo, repo, cache, cfg.CacheTTL),
		Moderation:   app.NewModerationService(repo, repo, cache),
		Accounts:     accounts,
		Properties:   app.NewPropertyService(repo, cache),
		Reviews:      app.NewReviewService(repo, repo, cache),
		Sell:         app.NewSellService(repo, cache),
		Auth:         server.NewAuth(cfg.JWTSecret, accounts),
		ExposeErrors: cfg.ExposeErrors,
	}
	if cfg.PublicRPS > 0 {
		handlers.PublicLimiter = server.NewIPRateLimiter(cfg.PublicRPS, 5)
	}

	// http
	srv := server.New(server.Options{RequestTimeout: cfg.RequestTimeout, CORSOrigins: cfg.CORSOrigins})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("db close failed")
	}
}
