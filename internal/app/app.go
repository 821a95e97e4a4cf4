// Package app opens the datastore and playback cache selected by config.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"watchparty/internal/cache"
	"watchparty/internal/config"
	pkglog "watchparty/internal/log"
	"watchparty/internal/repository"
)

const connectTimeout = 10 * time.Second

// App is the storage a process runs against.
type App struct {
	Store    *repository.Store
	Playback cache.PlaybackLog

	mongo *mongo.Client
	redis *redis.Client
}

// Open connects to the configured backends. Memory drivers need nothing
// external.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}
	l := pkglog.L()

	switch cfg.Store.Driver {
	case "memory":
		a.Store = repository.NewMemoryStore()
		l.Warn().Msg("using in-memory datastore, data is lost on exit")
	default:
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Store.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			client.Disconnect(ctx)
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		db := client.Database(cfg.Store.Database)
		if err := repository.EnsureIndexes(connectCtx, db); err != nil {
			client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		a.mongo = client
		a.Store = repository.NewMongoStore(db)
		l.Info().Str("database", cfg.Store.Database).Msg("connected to mongodb")
	}

	switch cfg.Cache.Driver {
	case "memory":
		a.Playback = cache.NewMemoryPlaybackLog(cfg.Cache.PlaybackWindow)
	default:
		rdb, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURI)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.redis = rdb
		a.Playback = cache.NewPlaybackCache(rdb, cfg.Cache.PlaybackWindow)
		l.Info().Msg("connected to redis")
	}

	return a, nil
}

// Close releases any external connections.
func (a *App) Close(ctx context.Context) {
	l := pkglog.L()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			l.Warn().Err(err).Msg("close redis")
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			l.Warn().Err(err).Msg("disconnect mongo")
		}
	}
}
