package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academix-api/api/swagger"
	"github.com/noah-isme/academix-api/internal/handler"
	"github.com/noah-isme/academix-api/internal/middleware"
	"github.com/noah-isme/academix-api/internal/repository"
	"github.com/noah-isme/academix-api/internal/service"
	"github.com/noah-isme/academix-api/pkg/cache"
	"github.com/noah-isme/academix-api/pkg/config"
	"github.com/noah-isme/academix-api/pkg/database"
	"github.com/noah-isme/academix-api/pkg/jobs"
	"github.com/noah-isme/academix-api/pkg/logger"
	"github.com/noah-isme/academix-api/pkg/mail"
	corsmiddleware "github.com/noah-isme/academix-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academix-api/pkg/middleware/requestid"
	"github.com/noah-isme/academix-api/pkg/storage"
)

// @title Academix API
// @version 1.0.0
// @description Course portal for students and faculty: courses, materials, assignments, queries and feedback
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MigrateOnBoot {
		migrator, err := database.NewMigrator()
		if err != nil {
			logr.Fatal("failed to prepare migrations", zap.Error(err))
		}
		if err := migrator.Up(context.Background(), db.DB); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	files, err := storage.NewLocalStorage(cfg.Uploads.StorageDir, cfg.Uploads.MaxFileSizeBytes)
	if err != nil {
		logr.Fatal("failed to prepare upload storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mailQueue := jobs.NewQueue("mail", jobs.QueueConfig{
		Workers:    cfg.Mail.Workers,
		MaxRetries: cfg.Mail.Retries,
		RetryDelay: cfg.Mail.RetryDelay,
		Logger:     logr,
	})
	mailDispatcher := mail.NewDispatcher(mailQueue, mail.New(cfg.Mail, logr), logr)
	mailQueue.Start(ctx)
	defer mailQueue.Stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	accounts := repository.NewAccountRepository(db)
	courses := repository.NewCourseRepository(db)
	content := repository.NewContentRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	discussions := repository.NewDiscussionRepository(db)
	pending := repository.NewRegistrationRepository(redisClient)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	catalogCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled)
	authSvc := service.NewAuthService(accounts, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.JWT.SingleSession,
	})
	identitySvc := service.NewIdentityService(accounts, logr)
	notifications := service.NewNotificationService(mailDispatcher, metricsSvc, cfg.Registration.CodeTTL, logr)
	registrationSvc := service.NewRegistrationService(accounts, pending, notifications, authSvc, validate, logr, service.RegistrationConfig{
		CodeTTL:     cfg.Registration.CodeTTL,
		MaxAttempts: cfg.Registration.MaxAttempts,
	})
	profileSvc := service.NewProfileService(accounts, courses, validate, logr)
	courseSvc := service.NewCourseService(courses, catalogCache, metricsSvc, cfg.Catalog.CacheTTL, validate, logr)
	downloadPath := strings.TrimRight(cfg.APIPrefix, "/") + "/downloads/"
	contentSvc := service.NewContentService(content, courses, files, signer, downloadPath, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignments, courses, metricsSvc, validate, logr)
	gradebookSvc := service.NewGradebookService(assignments, courses, logr)
	discussionSvc := service.NewDiscussionService(discussions, courses, validate, logr)

	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
		"redis":    cacheRepo.Ping,
	})
	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, registrationSvc),
		Profile:    handler.NewProfileHandler(profileSvc),
		Course:     handler.NewCourseHandler(courseSvc),
		Content:    handler.NewContentHandler(contentSvc),
		Assignment: handler.NewAssignmentHandler(assignmentSvc),
		Gradebook:  handler.NewGradebookHandler(gradebookSvc),
		Discussion: handler.NewDiscussionHandler(discussionSvc),
		Metrics:    metricsHandler,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.ResponseMeta())

	handler.RegisterSystemRoutes(r, handlers.Metrics)
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handlers, handler.Guards{
		JWT:      middleware.JWT(authSvc),
		Identity: middleware.Identity(identitySvc),
		Audit: func(action, resource string) gin.HandlerFunc {
			return middleware.Audit(accounts, logr, action, resource)
		},
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
