package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"museumrewards/internal/auth"
	"museumrewards/internal/coins"
	"museumrewards/internal/config"
	"museumrewards/internal/db"
	api "museumrewards/internal/http"
	"museumrewards/internal/logging"
	"museumrewards/internal/repo"
	"museumrewards/internal/service"
	"museumrewards/migrations"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("production")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.AppEnv)
	zlog.Logger = log

	rewards, err := config.LoadRewards(cfg.RewardsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.RewardsFile).Msg("load reward rules")
	}

	ctx := context.Background()
	repository, closeRepo, err := openRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open repository")
	}
	defer closeRepo()

	authManager := auth.NewManager(cfg.JWTSecret)
	svc := service.New(repository, authManager, log,
		coins.WithRewards(rewards),
		coins.WithLocation(cfg.DefaultTimezone),
	)

	handler := &api.API{Service: svc, Auth: authManager, Log: log, Origins: cfg.CORSOrigins}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

// openRepository connects to Postgres and applies migrations when a database
// is configured, otherwise it falls back to the in-memory repository.
func openRepository(ctx context.Context, cfg config.Config, log zerolog.Logger) (service.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		return repo.NewMemory(), func() {}, nil
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(ctx, pool, migrations.FS); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo.New(pool), pool.Close, nil
}
