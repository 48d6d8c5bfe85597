// @title                       BrandScape API
// @version                     1.0
// @description                 Brand to influencer matching and campaign management.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/brandscape/brandscape-api/internal/api"
	"github.com/brandscape/brandscape-api/internal/core/service"
	"github.com/brandscape/brandscape-api/internal/infrastructure/db/mongo"
	"github.com/brandscape/brandscape-api/internal/infrastructure/db/redis"
	"github.com/brandscape/brandscape-api/internal/infrastructure/queue"
	"github.com/brandscape/brandscape-api/internal/pkg/config"
	"github.com/brandscape/brandscape-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "brandscape-api",
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer dcancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	store := mongo.NewStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		lg.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Services ---
	resolver := service.NewResolver(store.Matches, store.Influencers, store.Dashboard, nil, logger.Component("matcher"))
	catalog := redis.NewCatalogCache(rdb, cfg.Redis.CatalogTTL)
	idem := redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)

	authService := service.NewAuthService(store.Users, store.Brands, store.Influencers, store.Matches,
		cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	brandService := service.NewBrandService(store.Brands, store.Matches, catalog, logger.Component("brands"))
	influencerService := service.NewInfluencerService(store.Influencers, store.Dashboard, logger.Component("influencers"))
	campaignService := service.NewCampaignService(store.Campaigns, store.Brands, resolver, idem, logger.Component("campaigns"))

	// --- Pending campaign recovery ---
	g, gctx := errgroup.WithContext(ctx)

	dispatcher := queue.NewDispatcher(cfg.Recovery.Workers, campaignService, logger.Component("recovery"))
	dispatcher.Start(gctx)

	scheduler := queue.NewScheduler(logger.Component("scheduler"))
	sweeper := queue.NewSweeper(gctx, store.Campaigns, dispatcher, cfg.Recovery.Grace, logger.Component("sweeper"))
	if err := scheduler.Register(cfg.Recovery.Schedule, sweeper); err != nil {
		lg.Fatal().Err(err).Str("schedule", cfg.Recovery.Schedule).Msg("invalid recovery schedule")
	}
	scheduler.Start()
	g.Go(func() error {
		<-gctx.Done()
		lg.Info().Msg("scheduler stopping")
		scheduler.Stop()
		return nil
	})

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Auth:        authService,
		Brands:      brandService,
		Influencers: influencerService,
		Campaigns:   campaignService,
		Mongo:       db,
		Redis:       rdb,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger.Component("http"),
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		lg.Info().Str("addr", srv.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-gctx.Done():
		case sig := <-quit:
			lg.Info().Str("signal", sig.String()).Msg("shutting down")
			cancel()
		}

		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		if err := srv.Shutdown(sctx); err != nil {
			lg.Error().Err(err).Msg("http server shutdown failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error().Err(err).Msg("exited with error")
	}
	lg.Info().Msg("exited")
}
