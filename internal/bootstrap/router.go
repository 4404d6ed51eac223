package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mapscan-dev/mapscan-backend/config"
	httpapi "github.com/mapscan-dev/mapscan-backend/internal/api/http"
	"github.com/mapscan-dev/mapscan-backend/internal/api/http/mapscan"
	"github.com/mapscan-dev/mapscan-backend/internal/api/http/middleware"
	"github.com/mapscan-dev/mapscan-backend/internal/repository"
	"github.com/mapscan-dev/mapscan-backend/internal/storage/postgres"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Runs        *repository.RunRepository
	Store       *postgres.ResultStore
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Config.App.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/")
	api.Use(middleware.RequestIDMiddleware())

	handler := mapscan.New(dep.Config, dep.Runs, dep.Store)
	handler.Register(api)

	return r
}
