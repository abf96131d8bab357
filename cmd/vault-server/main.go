// Command vault-server serves the matchday API and the static site.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nufcvault/vault/pkg/api"
	"github.com/nufcvault/vault/pkg/cache"
	"github.com/nufcvault/vault/pkg/config"
	"github.com/nufcvault/vault/pkg/fixtures"
	"github.com/nufcvault/vault/pkg/footballdata"
	"github.com/nufcvault/vault/pkg/logging"
	"github.com/nufcvault/vault/pkg/ratelimit"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv(config.EnvConfigFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "vault-server: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.LogLevel)
	logCfg.Pretty = cfg.LogPretty
	logging.Setup(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Startup failed")
	}
	defer a.Close()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr()).Msg("Listen failed")
	}

	log.Info().
		Str("addr", "http://localhost:"+fmt.Sprint(cfg.Port)).
		Str("cache", cfg.CacheBackend).
		Bool("has_token", cfg.HasToken()).
		Msg("Server running")
	if !cfg.HasToken() {
		log.Warn().Msg("FOOTBALL_DATA_TOKEN is not set; upstream routes will answer 401")
	}

	if err := a.Serve(ctx, ln); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server stopped")
}

// app is the wired server and the resources it owns.
type app struct {
	handler http.Handler
	source  *fixtures.Source
	store   cache.Store
	redis   *redis.Client
}

// build wires configuration into a ready handler.
func build(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	if cfg.RedisURL != "" {
		client, err := connectRedis(ctx, cfg.RedisURL)
		switch {
		case err == nil:
			a.redis = client
		case cfg.CacheBackend == cache.BackendRedis || cfg.CacheBackend == cache.BackendLayered:
			return nil, err
		default:
			log.Warn().Err(err).Msg("Redis unavailable, quota state stays in memory")
		}
	}

	store, err := cache.Open(ctx, cache.Options{Backend: cfg.CacheBackend, Redis: a.redis})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}
	a.store = store

	upstream, err := footballdata.New(footballdata.Config{
		BaseURL: cfg.FootballDataBaseURL,
		Token:   cfg.FootballDataToken,
		Timeout: cfg.UpstreamTimeout,
		Quota:   ratelimit.NewTracker(a.redis, logging.NewLogger("ratelimit")),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create upstream client: %w", err)
	}

	a.source = fixtures.NewSource(cfg.FixturesFile, logging.NewLogger("fixtures"))

	a.handler = api.NewServer(api.Options{
		Port:         cfg.Port,
		TeamID:       cfg.TeamID,
		TeamName:     cfg.TeamName,
		Competition:  cfg.Competition,
		StaticDir:    cfg.StaticDir,
		TTLLive:      cfg.TTLLive,
		TTLFixtures:  cfg.TTLFixtures,
		TTLStandings: cfg.TTLStandings,
	}, store, upstream, a.source).Handler()

	return a, nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
	return client, nil
}

// Serve runs the HTTP server and the fixtures watcher until ctx is done,
// then shuts the server down gracefully.
func (a *app) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.source.Watch(ctx); err != nil {
			log.Warn().Err(err).Msg("Fixtures watcher stopped")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the cache and the Redis connection.
func (a *app) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
