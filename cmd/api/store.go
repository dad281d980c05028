package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"chat-ranking-service/internal/config"
	rankingFile "chat-ranking-service/internal/ranking/adapters/filestore"
	rankingRepoPg "chat-ranking-service/internal/ranking/adapters/postgres"
	rankingRedis "chat-ranking-service/internal/ranking/adapters/redis"
	"chat-ranking-service/internal/ranking/core/ports"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// openStore connects the configured GroupStore backend. The returned func
// releases its connections and must run after the final flush.
func openStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (ports.GroupStorePort, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres: %w", err)
		}

		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to ping postgres: %w", err)
		}

		repo := rankingRepoPg.NewGroupRepository(rankingRepoPg.NewSQLDB(db), cfg.PostgresTable, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil

	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return rankingRedis.NewStore(client, cfg.RedisPrefix, logger), func() { _ = client.Close() }, nil

	default:
		store, err := rankingFile.NewStore(afero.NewOsFs(), cfg.DataDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
