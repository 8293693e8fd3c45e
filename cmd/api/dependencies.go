package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	httptransport "github.com/synchrony/student-management/internal/api/http"
	"github.com/synchrony/student-management/internal/api/http/handlers"
	"github.com/synchrony/student-management/internal/auth"
	"github.com/synchrony/student-management/internal/config"
	"github.com/synchrony/student-management/internal/events"
	"github.com/synchrony/student-management/internal/idgen"
	"github.com/synchrony/student-management/internal/observability"
	"github.com/synchrony/student-management/internal/persistence"
	"github.com/synchrony/student-management/internal/repository"
	"github.com/synchrony/student-management/internal/service"
	"github.com/synchrony/student-management/internal/storage"
	"github.com/synchrony/student-management/internal/storage/memory"
	"github.com/synchrony/student-management/internal/storage/minio"
	"github.com/synchrony/student-management/internal/worker"
)

type dependencies struct {
	redis  *persistence.Redis
	seeder *service.Seeder
	routes httptransport.RouteConfig
}

func (d *dependencies) Close() {
	d.redis.Close()
}

func buildDependencies(ctx context.Context, cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) (*dependencies, error) {
	redisRequired := cfg.Sequence.Backend == "redis"
	rdb, err := persistence.NewRedis(ctx, cfg.Redis, redisRequired, logger)
	if err != nil {
		return nil, err
	}

	var ids *idgen.Generator
	if redisRequired {
		ids = idgen.NewRedis(rdb.Client, cfg.Sequence.KeyPrefix)
	} else {
		ids = idgen.NewInMemory()
		logger.Warn("identifier sequences are process local; use SEQUENCE_BACKEND=redis when running more than one instance")
	}

	healthDeps := []handlers.Dependency{{Name: "postgres", Pinger: pg}}
	if rdb.Enabled() {
		healthDeps = append(healthDeps, handlers.Dependency{Name: "redis", Pinger: rdb})
	}

	var store storage.PhotoStore
	if cfg.Photos.Endpoint != "" {
		s3, err := minio.New(ctx, cfg.Photos)
		if err != nil {
			rdb.Close()
			return nil, fmt.Errorf("photo store: %w", err)
		}
		store = s3
		healthDeps = append(healthDeps, handlers.Dependency{Name: "photos", Pinger: s3})
	} else {
		store = memory.New()
		logger.Warn("PHOTOS_S3_ENDPOINT not provided; profile pictures are kept in memory")
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	photos := service.NewPhotoService(store, cfg.Photos, logger)
	worker.StartPhotoCleanupWorker(service.NewPhotoCleanupService(dispatcher, photos, logger))

	pool := pg.PoolHandle()
	adminRepo := repository.NewAdminRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	accounts := service.AccountDependencies{
		AdminRepo:   adminRepo,
		StudentRepo: studentRepo,
		IDs:         ids,
		Photos:      photos,
		Dispatcher:  dispatcher,
		BcryptCost:  cfg.Auth.BcryptCost,
		Logger:      logger,
	}
	adminService := service.NewAdminService(accounts)
	studentService := service.NewStudentService(accounts)

	tokens := auth.NewTokenManager(cfg.Auth, auth.WithLogger(logger))
	resolver := auth.NewResolver(adminRepo, studentRepo, logger)
	authService := service.NewAuthService(resolver, tokens, logger, metrics)
	urls := handlers.PhotoURLs{BasePath: cfg.App.BasePath}

	return &dependencies{
		redis:  rdb,
		seeder: service.NewSeeder(adminService, studentService, cfg.Seed, logger),
		routes: httptransport.RouteConfig{
			BasePath:      cfg.App.BasePath,
			Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, healthDeps...),
			Auth:          handlers.NewAuthHandler(authService),
			Admin:         handlers.NewAdminHandler(adminService, studentService, urls),
			Student:       handlers.NewStudentHandler(studentService, urls),
			Authenticator: auth.NewAuthenticator(tokens, resolver, logger, metrics),
			Metrics:       metrics,
		},
	}, nil
}
