package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/pjbl-tracker-api/api/swagger"
	"github.com/noah-isme/pjbl-tracker-api/internal/dto"
	"github.com/noah-isme/pjbl-tracker-api/internal/handler"
	"github.com/noah-isme/pjbl-tracker-api/internal/middleware"
	"github.com/noah-isme/pjbl-tracker-api/internal/models"
	"github.com/noah-isme/pjbl-tracker-api/internal/repository"
	"github.com/noah-isme/pjbl-tracker-api/internal/service"
	"github.com/noah-isme/pjbl-tracker-api/pkg/cache"
	"github.com/noah-isme/pjbl-tracker-api/pkg/config"
	"github.com/noah-isme/pjbl-tracker-api/pkg/database"
	"github.com/noah-isme/pjbl-tracker-api/pkg/jobs"
	"github.com/noah-isme/pjbl-tracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/pjbl-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/pjbl-tracker-api/pkg/middleware/requestid"
)

// @title PJBL Tracker API
// @version 0.1.0
// @description Dimension scoring engine for project-based learning tracking
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, rollup caching disabled", zap.Error(err))
		cacheSvc = service.NewCacheService(nil, metrics, cfg.Scoring.RollupCacheTTL, logr, false)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close()
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Scoring.RollupCacheTTL, logr, true)
	}

	questionRepo := repository.NewQuestionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	dimensionRepo := repository.NewDimensionRepository(db)

	validate := validator.New()
	scoringSvc := service.NewScoringService(submissionRepo, questionRepo, cacheSvc, metrics, logr)
	rollupSvc := service.NewRollupService(submissionRepo, studentRepo, questionRepo, cacheSvc, cfg.Scoring.RollupCacheTTL, logr)
	batchSvc := service.NewBatchService(submissionRepo, scoringSvc, validate, metrics, logr)
	streakSvc := service.NewStreakService(submissionRepo, studentRepo, logr)
	catalogSvc := service.NewCatalogService(questionRepo, dimensionRepo, logr)

	// One worker: recompute batches must never score submissions
	// concurrently with each other.
	recomputeQueue := jobs.NewQueue("scoring-recompute", func(ctx context.Context, job jobs.Job) error {
		req, ok := job.Payload.(dto.RecomputeRequest)
		if !ok {
			return fmt.Errorf("unexpected payload type for job %s", job.ID)
		}
		_, err := batchSvc.RecomputeBatch(ctx, req)
		return err
	}, jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.Scoring.RecomputeQueueBuffer,
		Logger:     logr,
	})
	recomputeQueue.Start(context.Background())
	defer recomputeQueue.Stop()

	scoringHandler := handler.NewScoringHandler(scoringSvc, rollupSvc, batchSvc, streakSvc, recomputeQueue, cfg.Scoring.AsyncRecompute, logr)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))

	scoring := api.Group("/scoring")
	scoring.POST("/submissions/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), scoringHandler.ScoreSubmission)
	scoring.GET("/students/:id", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), scoringHandler.StudentRollup)
	scoring.GET("/classes/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), scoringHandler.ClassRollup)
	scoring.POST("/recompute", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), scoringHandler.Recompute)

	api.GET("/students/:id/streak", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), scoringHandler.StudentStreak)
	api.GET("/instruments/:id/questions", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), catalogHandler.InstrumentQuestions)
	api.GET("/dimensions", catalogHandler.Dimensions)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
