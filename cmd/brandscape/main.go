// Command brandscape is the operator CLI: it loads the scoring pipeline's CSV
// exports and inspects how registered brands resolve against them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brandscape/brandscape-api/internal/core/service"
	"github.com/brandscape/brandscape-api/internal/infrastructure/db/mongo"
	"github.com/brandscape/brandscape-api/internal/infrastructure/db/redis"
	"github.com/brandscape/brandscape-api/internal/pkg/config"
	"github.com/brandscape/brandscape-api/pkg/logger"
)

// app holds the connections shared by every subcommand.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *mongo.Store
	cache *redis.CatalogCache
	close func()
}

func (a *app) resolver() *service.Resolver {
	return service.NewResolver(a.store.Matches, a.store.Influencers, a.store.Dashboard, nil, logger.Component("matcher"))
}

func (a *app) diagnostics() *service.Diagnostics {
	return service.NewDiagnostics(a.store.Brands, a.store.Matches, a.store.Influencers, a.store.Dashboard,
		a.resolver(), logger.Component("diagnostics"))
}

// connect opens MongoDB and, when withCache is set, Redis.
func connect(ctx context.Context, withCache bool) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	lg := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr, Service: "brandscape-cli"})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: lg, store: mongo.NewStore(db)}
	closers := []func(){func() { _ = client.Disconnect(context.Background()) }}

	if withCache {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			// The cache only needs invalidating; a stale list expires on its own.
			lg.Warn().Err(err).Msg("redis unavailable, catalog cache will not be invalidated")
		} else {
			a.cache = redis.NewCatalogCache(rdb, cfg.Redis.CatalogTTL)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	a.close = func() {
		for _, c := range closers {
			c()
		}
	}
	return a, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "brandscape",
		Short:         "BrandScape data import and diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newImportCmd(),
		newCheckBrandCmd(),
		newCheckInfluencersCmd(),
		newDiagnoseCmd(),
		newFixBrandsCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
