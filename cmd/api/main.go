package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mapscan-dev/mapscan-backend/config"
	"github.com/mapscan-dev/mapscan-backend/internal/bootstrap"
	"github.com/mapscan-dev/mapscan-backend/internal/db"
	"github.com/mapscan-dev/mapscan-backend/internal/repository"
	"github.com/mapscan-dev/mapscan-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	var pool *pgxpool.Pool
	var store *postgres.ResultStore
	if sqlDB, err := postgres.NewConnection(&cfg.Database); err != nil {
		log.Printf("postgres unavailable, result store disabled: %v", err)
	} else {
		store = postgres.NewResultStore(sqlDB)
		pool = openPool(ctx, cfg)
	}

	var runs *repository.RunRepository
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis unavailable, run repository disabled: %v", err)
		rdb = nil
	} else {
		runs = repository.NewRunRepository(rdb)
	}
	cancel()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "mapscan-backend",
		Config:      cfg,
		DB:          pool,
		Redis:       rdb,
		Runs:        runs,
		Store:       store,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// openPool opens the pgx pool used for health checks; the result store has
// its own database/sql connection.
func openPool(ctx context.Context, cfg *config.Config) *pgxpool.Pool {
	d, err := db.Open(ctx, db.Options{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Printf("pgx pool unavailable: %v", err)
		return nil
	}
	return d.Pool
}
