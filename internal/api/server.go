package api

import (
	"context"
	"fmt"
	"time"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/dsn"
	"chilaquiles/internal/app/handler"
	"chilaquiles/internal/app/middleware"
	"chilaquiles/internal/app/redis"
	"chilaquiles/internal/app/repository"
	"chilaquiles/internal/app/repository/sqlstore"
	"chilaquiles/internal/app/storage"
	"chilaquiles/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StartServer собирает зависимости по конфигу и запускает HTTP-сервер до сигнала остановки
func StartServer() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	cfg.SetupLogger()
	logrus.Info(cfg.String())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := NewStorage(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}
	defer store.Close()

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}

	tokens, err := NewTokenStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer tokens.Close()

	images, err := NewImageStore(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	auth := middleware.NewAuthMiddleware(store, tokens, middleware.NewSessionStore(cfg.Auth.SessionSecret), cfg)
	h := handler.NewHandler(store, auth, images, cfg)

	app := pkg.NewApp(cfg, NewRouter(cfg), h)
	return app.RunApp()
}

// NewStorage открывает хранилище выбранного драйвера (orm или sql) и диалекта
func NewStorage(ctx context.Context, db config.DatabaseConfig) (repository.Storage, error) {
	dsnStr, err := dsn.FromConfig(db)
	if err != nil {
		return nil, err
	}

	var store repository.Storage
	switch db.Driver {
	case config.DriverSQL:
		s, err := sqlstore.New(db.Dialect, dsnStr)
		if err != nil {
			return nil, err
		}
		s.SetPool(db.MaxOpenConns, db.MaxIdleConns)
		store = s
	default:
		r, err := repository.New(db.Dialect, dsnStr)
		if err != nil {
			return nil, err
		}
		if err := r.SetPool(db.MaxOpenConns, db.MaxIdleConns); err != nil {
			return nil, err
		}
		store = r
	}

	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logrus.Infof("storage %s/%s connected", db.Driver, db.Dialect)
	return store, nil
}

// NewTokenStore redis, если он настроен, иначе хранилище в памяти процесса
func NewTokenStore(ctx context.Context, cfg config.RedisConfig) (redis.Store, error) {
	if cfg.Host == "" {
		logrus.Warn("REDIS_HOST is empty, sessions and revoked tokens are kept in memory")
		return redis.NewMemory(), nil
	}
	return redis.New(ctx, cfg)
}

// NewImageStore MinIO для изображений блюд; nil, если endpoint не задан
func NewImageStore(ctx context.Context, cfg config.MinIOConfig) (handler.ImageStore, error) {
	if !cfg.Enabled() {
		logrus.Info("MINIO_ENDPOINT is empty, dish image upload is disabled")
		return nil, nil
	}
	client, err := storage.NewMinIOClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewRouter gin с recovery, логированием запросов и CORS для SPA
func NewRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Total-Count"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))
	return router
}
