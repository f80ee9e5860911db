package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/agendahub/agenda-api/api/swagger"
	"github.com/agendahub/agenda-api/internal/handler"
	"github.com/agendahub/agenda-api/internal/middleware"
	"github.com/agendahub/agenda-api/internal/repository"
	"github.com/agendahub/agenda-api/internal/service"
	"github.com/agendahub/agenda-api/pkg/cache"
	"github.com/agendahub/agenda-api/pkg/config"
	"github.com/agendahub/agenda-api/pkg/database"
	"github.com/agendahub/agenda-api/pkg/jobs"
	"github.com/agendahub/agenda-api/pkg/logger"
	corsmiddleware "github.com/agendahub/agenda-api/pkg/middleware/cors"
	reqidmiddleware "github.com/agendahub/agenda-api/pkg/middleware/requestid"
)

// @title Agenda API
// @version 1.0.0
// @description Personal school planner: subjects, grades, schedule, tasks, events and class reminders
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	eventRepo := repository.NewEventRepository(db)
	pushRepo := repository.NewPushTokenRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Grades.CacheTTL, logr, cfg.Grades.CacheEnabled)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "agenda-api",
	})
	subjectSvc := service.NewSubjectService(subjectRepo, cacheSvc, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, subjectRepo, cacheSvc, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, subjectRepo, validate, logr)
	taskSvc := service.NewTaskService(taskRepo, subjectRepo, validate, logr)
	eventSvc := service.NewEventService(eventRepo, validate, logr)
	plannerSvc := service.NewPlannerService(scheduleRepo, taskRepo, eventRepo, subjectRepo, logr)
	pushSvc := service.NewPushService(pushRepo, validate, logr)

	pushClient := service.NewHTTPPushClient(cfg.Reminders.PushEndpoint, 10*time.Second)
	reminderSvc := service.NewReminderService(
		scheduleRepo, subjectRepo, pushRepo, pushClient, metricsSvc, logr,
		cfg.Reminders.Lookahead, cfg.Reminders.TickInterval,
		jobs.QueueConfig{
			Workers:    cfg.Reminders.WorkerCount,
			MaxRetries: cfg.Reminders.WorkerRetries,
			Logger:     logr,
		},
	)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), cfg, authSvc,
		handler.NewAuthHandler(authSvc),
		handler.NewSubjectHandler(subjectSvc),
		handler.NewGradeHandler(gradeSvc),
		handler.NewScheduleHandler(scheduleSvc),
		handler.NewTaskHandler(taskSvc),
		handler.NewEventHandler(eventSvc),
		handler.NewPlannerHandler(plannerSvc),
		handler.NewPushHandler(pushSvc),
		handler.NewReminderHandler(reminderSvc),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Reminders.Enabled {
		reminderSvc.Start(ctx)
		defer reminderSvc.Stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func registerRoutes(
	api *gin.RouterGroup,
	cfg *config.Config,
	authSvc *service.AuthService,
	auth *handler.AuthHandler,
	subjects *handler.SubjectHandler,
	grades *handler.GradeHandler,
	schedules *handler.ScheduleHandler,
	tasks *handler.TaskHandler,
	events *handler.EventHandler,
	planner *handler.PlannerHandler,
	push *handler.PushHandler,
	reminders *handler.ReminderHandler,
) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/refresh", auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.POST("/auth/logout", auth.Logout)
		protected.POST("/auth/change-password", auth.ChangePassword)
		protected.GET("/auth/me", auth.Me)

		protected.GET("/subjects", subjects.List)
		protected.POST("/subjects", subjects.Create)
		protected.GET("/subjects/:id", subjects.Get)
		protected.PUT("/subjects/:id", subjects.Update)
		protected.DELETE("/subjects/:id", subjects.Delete)

		protected.GET("/grades", grades.List)
		protected.POST("/grades", grades.Create)
		protected.GET("/grades/overview", grades.Overview)
		protected.GET("/grades/overview/export", grades.Export)
		protected.GET("/grades/:id", grades.Get)
		protected.PUT("/grades/:id", grades.Update)
		protected.DELETE("/grades/:id", grades.Delete)

		protected.GET("/schedules", schedules.List)
		protected.POST("/schedules", schedules.Create)
		protected.GET("/schedules/:id", schedules.Get)
		protected.PUT("/schedules/:id", schedules.Update)
		protected.DELETE("/schedules/:id", schedules.Delete)

		protected.GET("/tasks", tasks.List)
		protected.POST("/tasks", tasks.Create)
		protected.GET("/tasks/:id", tasks.Get)
		protected.PUT("/tasks/:id", tasks.Update)
		protected.PATCH("/tasks/:id/toggle", tasks.Toggle)
		protected.DELETE("/tasks/:id", tasks.Delete)

		protected.GET("/events", events.List)
		protected.POST("/events", events.Create)
		protected.GET("/events/:id", events.Get)
		protected.PUT("/events/:id", events.Update)
		protected.DELETE("/events/:id", events.Delete)

		protected.GET("/planner/day", planner.Day)

		protected.GET("/push/tokens", push.List)
		protected.POST("/push/tokens", push.Register)
		protected.DELETE("/push/tokens/:id", push.Unregister)
	}

	internal := api.Group("/internal")
	internal.Use(middleware.RunnerSecret(cfg.Reminders.RunnerSecret))
	{
		internal.POST("/reminders/run", reminders.Run)
	}
}
