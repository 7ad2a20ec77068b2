package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/eduvillage/eduvillage-api/api/swagger"
	"github.com/eduvillage/eduvillage-api/internal/handler"
	"github.com/eduvillage/eduvillage-api/internal/middleware"
	"github.com/eduvillage/eduvillage-api/internal/models"
	"github.com/eduvillage/eduvillage-api/internal/repository"
	"github.com/eduvillage/eduvillage-api/internal/service"
	"github.com/eduvillage/eduvillage-api/pkg/cache"
	"github.com/eduvillage/eduvillage-api/pkg/certpdf"
	"github.com/eduvillage/eduvillage-api/pkg/config"
	"github.com/eduvillage/eduvillage-api/pkg/database"
	"github.com/eduvillage/eduvillage-api/pkg/logger"
	corsmiddleware "github.com/eduvillage/eduvillage-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eduvillage/eduvillage-api/pkg/middleware/requestid"
)

// @title EduVillage API
// @version 1.0.0
// @description Online course platform with gated lesson progression and certification
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		if cfg.Cache.Enabled {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, cfg.Cache.TTL, logr, metricsService, cfg.Cache.Enabled && redisClient != nil)

	authService := service.NewAuthService(userRepo, studentRepo, teacherRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "eduvillage-api",
		Audience:           []string{"eduvillage"},
	})
	progressionService := service.NewProgressionService(courseRepo, progressRepo, studentRepo, enrollmentRepo, cacheService, logr)
	quizService := service.NewQuizService(quizRepo, courseRepo, progressRepo, studentRepo, progressionService, logr)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, progressionService, logr)
	certificateService := service.NewCertificateService(certificateRepo, courseRepo, progressRepo, studentRepo, certpdf.NewRenderer(), service.CertificateConfig{
		VerifyBaseURL: cfg.Certificates.VerifyBaseURL,
		IssuerName:    cfg.Certificates.IssuerName,
	}, logr)
	studentService := service.NewStudentService(studentRepo)
	teacherService := service.NewTeacherService(teacherRepo)

	authHandler := handler.NewAuthHandler(authService)
	courseHandler := handler.NewCourseHandler(courseService)
	quizHandler := handler.NewQuizHandler(quizService)
	progressHandler := handler.NewProgressHandler(progressionService)
	certificateHandler := handler.NewCertificateHandler(certificateService)
	studentHandler := handler.NewStudentHandler(studentService)
	teacherHandler := handler.NewTeacherHandler(teacherService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authService), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authService), middleware.Principal(authService), authHandler.Me)
	}

	// Public certificate verification, reachable without a token.
	api.GET("/verify-certificate/:id", certificateHandler.Verify)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService), middleware.Principal(authService))
	{
		authed.GET("/courses", courseHandler.List)
		authed.GET("/courses/:id", courseHandler.Get)
		authed.POST("/courses/:id/enroll", courseHandler.Enroll)
		authed.GET("/courses/:id/lessons", courseHandler.Lessons)
		authed.GET("/courses/:id/progress", progressHandler.CourseProgress)
		authed.GET("/courses/:id/resume", progressHandler.Resume)
		authed.POST("/courses/:id/certificate", certificateHandler.Issue)
		authed.GET("/courses/:id/certificate/download", certificateHandler.Download)

		authed.GET("/lessons/:id", courseHandler.LessonDetail)
		authed.GET("/lessons/:id/can-access", progressHandler.CanAccess)
		authed.POST("/lessons/:id/complete", progressHandler.MarkComplete)

		authed.GET("/quizzes/:id", quizHandler.Detail)
		authed.POST("/quizzes/:id/submit", quizHandler.Submit)

		authed.GET("/dashboard", progressHandler.Dashboard)

		authed.GET("/students", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), studentHandler.List)

		admin := authed.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/students/:id", studentHandler.Get)
			admin.GET("/teachers", teacherHandler.List)
			admin.POST("/certificates/:id/revoke", certificateHandler.Revoke)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
