package main

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/coderr/marketplace/internal/core/ports"
	"github.com/coderr/marketplace/internal/infrastructure/db/memory"
	"github.com/coderr/marketplace/internal/infrastructure/db/mongo"
	"github.com/coderr/marketplace/internal/infrastructure/db/postgres"
	"github.com/coderr/marketplace/internal/infrastructure/db/redis"
	"github.com/coderr/marketplace/internal/infrastructure/http/handlers"
	"github.com/coderr/marketplace/internal/pkg/config"
)

const pingTimeout = 3 * time.Second

// storage is the set of repositories selected by STORAGE_DRIVER plus the
// token store. close releases every open connection.
type storage struct {
	users   ports.UserRepository
	offers  ports.OfferRepository
	orders  ports.OrderRepository
	reviews ports.ReviewRepository
	tokens  ports.TokenStore

	// migrate creates indexes or tables for the selected driver.
	migrate func(ctx context.Context) error
	pingers map[string]handlers.Pinger
	closers []func(ctx context.Context) error
}

func (s *storage) close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i](ctx)
	}
}

// openStorage connects to the configured database. Mongo and Postgres keep
// login tokens in Redis; the memory driver keeps everything in process.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	s := &storage{pingers: make(map[string]handlers.Pinger)}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		store := memory.NewStore()
		s.users = memory.NewUserRepository(store)
		s.offers = memory.NewOfferRepository(store)
		s.orders = memory.NewOrderRepository(store)
		s.reviews = memory.NewReviewRepository(store)
		s.tokens = memory.NewTokenStore()
		s.migrate = func(context.Context) error { return nil }
		log.Warn().Msg("memory storage selected, data is lost on shutdown")
		return s, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)
		s.useMongo(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return postgres.Close(db) })
		s.usePostgres(db)
		log.Info().Msg("connected to postgres")

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
	s.useRedis(rdb, cfg)
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	return s, nil
}

func (s *storage) useMongo(db *mongodriver.Database) {
	s.users = mongo.NewUserRepository(db)
	s.offers = mongo.NewOfferRepository(db)
	s.orders = mongo.NewOrderRepository(db)
	s.reviews = mongo.NewReviewRepository(db)
	s.migrate = func(ctx context.Context) error { return mongo.EnsureIndexes(ctx, db) }
	s.pingers["mongodb"] = func(ctx context.Context) error { return mongo.Ping(ctx, db) }
}

func (s *storage) usePostgres(db *gorm.DB) {
	s.users = postgres.NewUserRepository(db)
	s.offers = postgres.NewOfferRepository(db)
	s.orders = postgres.NewOrderRepository(db)
	s.reviews = postgres.NewReviewRepository(db)
	s.migrate = func(ctx context.Context) error { return postgres.Migrate(ctx, db) }
	s.pingers["postgres"] = func(ctx context.Context) error { return postgres.Ping(ctx, db, pingTimeout) }
}

func (s *storage) useRedis(rdb *goredis.Client, cfg *config.Config) {
	tokens := redis.NewBreakerTokenStore(redis.NewTokenStore(rdb, cfg.TokenTTL), redis.BreakerSettings{})
	s.tokens = tokens
	s.pingers["token_store"] = tokens.Check
	s.pingers["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, rdb) }
}
