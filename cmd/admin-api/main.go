package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/school-portal/admin-api/api/swagger"
	"github.com/school-portal/admin-api/internal/handler"
	internalmiddleware "github.com/school-portal/admin-api/internal/middleware"
	"github.com/school-portal/admin-api/internal/repository"
	"github.com/school-portal/admin-api/internal/service"
	"github.com/school-portal/admin-api/pkg/authprovider"
	"github.com/school-portal/admin-api/pkg/cache"
	"github.com/school-portal/admin-api/pkg/config"
	"github.com/school-portal/admin-api/pkg/database"
	"github.com/school-portal/admin-api/pkg/logger"
	corsmiddleware "github.com/school-portal/admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/school-portal/admin-api/pkg/middleware/requestid"
	"github.com/school-portal/admin-api/pkg/storage"
)

// @title School Portal Admin API
// @version 1.0.0
// @description Administrative backend for the school portal dashboard
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
			cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Cache.ListTTL, logr, false)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.ListTTL, logr, true)
		}
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Cache.ListTTL, logr, false)
	}

	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.AvatarURLTTL)
	store, err := storage.NewLocalObjectStore(cfg.Storage.BaseDir, signer)
	if err != nil {
		logr.Sugar().Fatalw("failed to init object store", "error", err)
	}
	tracker, err := storage.NewBlobTracker(filepath.Join(cfg.Storage.BaseDir, "blobs"), logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init blob tracker", "error", err)
	}
	defer tracker.ReleaseAll()

	provider := authprovider.New(cfg.AuthProvider, logr)

	announcementRepo := repository.NewAnnouncementRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	programRepo := repository.NewProgramRepository(db)
	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewTeacherSubjectRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer, nil, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, store, cfg.Storage.Bucket, cacheSvc, metricsSvc, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, store, tracker, cfg.Storage.Bucket, cacheSvc, metricsSvc, nil, logr)
	defer courseSvc.Close()
	programSvc := service.NewProgramService(programRepo, cacheSvc, nil, logr)
	userSvc := service.NewUserService(userRepo, store, cfg.Storage.Bucket, provider, cacheSvc, metricsSvc, cfg.Storage.AvatarURLTTL, nil, logr)
	subjectSvc := service.NewTeacherSubjectService(subjectRepo, cacheSvc, cfg.Cache.SubjectTTL, nil, logr)
	dashboardSvc := service.NewDashboardService(announcementRepo, courseRepo, programRepo, userRepo, subjectRepo, cacheSvc, cfg.Cache.DashboardTTL, logr)
	exportSvc := service.NewExportService(userRepo, programRepo, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:            handler.NewAuthHandler(authSvc),
		Announcements:   handler.NewAnnouncementHandler(announcementSvc),
		Courses:         handler.NewCourseHandler(courseSvc),
		Programs:        handler.NewProgramHandler(programSvc),
		Users:           handler.NewUserHandler(userSvc),
		TeacherSubjects: handler.NewTeacherSubjectHandler(subjectSvc),
		Dashboard:       handler.NewDashboardHandler(dashboardSvc),
		Exports:         handler.NewExportHandler(exportSvc),
		Files:           handler.NewFileHandler(store, signer, tracker),
	}, authSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
