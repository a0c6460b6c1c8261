package main

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/checkus/checkus-api/api/swagger"
	"github.com/checkus/checkus-api/internal/handler"
	"github.com/checkus/checkus-api/internal/repository"
	"github.com/checkus/checkus-api/internal/service"
	"github.com/checkus/checkus-api/pkg/cache"
	"github.com/checkus/checkus-api/pkg/config"
	"github.com/checkus/checkus-api/pkg/database"
	"github.com/checkus/checkus-api/pkg/logger"
)

// @title Checkus API
// @version 0.1.0
// @description School administration core: identity, access control and student-guardian registry
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	guardianRepo := repository.NewGuardianRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	studentRepo := repository.NewStudentProfileRepository(db)

	var schoolCache *repository.CacheRepository
	var cacheTTL time.Duration
	if cfg.Directory.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, directory cache disabled", "error", err)
		} else {
			schoolCache = repository.NewCacheRepository(redisClient, logr)
			cacheTTL = cfg.Directory.CacheTTL
			defer schoolCache.Close() //nolint:errcheck
		}
	}

	tokens := service.NewTokenService(service.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, logr)

	authSvc := service.NewAuthService(userRepo, tokens, validate, logr)
	guardianSvc := service.NewGuardianService(guardianRepo, userRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, userRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)

	var schoolSvc *service.SchoolService
	if schoolCache != nil {
		schoolSvc = service.NewSchoolService(schoolRepo, schoolCache, cacheTTL, metrics, validate, logr)
	} else {
		schoolSvc = service.NewSchoolService(schoolRepo, nil, 0, metrics, validate, logr)
	}

	r := handler.NewRouter(cfg, logr, tokens, metrics, handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Guardian: handler.NewGuardianHandler(guardianSvc),
		School:   handler.NewSchoolHandler(schoolSvc),
		Student:  handler.NewStudentHandler(studentSvc),
		User:     handler.NewUserHandler(userSvc),
		Metrics:  handler.NewMetricsHandler(metrics),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
