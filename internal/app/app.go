package app

import (
	"context"
	"hireview_backend/internal/config"
	"hireview_backend/internal/controller"
	"hireview_backend/internal/repository"
	"hireview_backend/internal/service"
	"hireview_backend/pkg/database"
	"hireview_backend/pkg/logger"
	"hireview_backend/pkg/monitoring"
	"hireview_backend/pkg/security"
	"hireview_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	reports *repository.ReportsRepository
	job     *repository.JobRepository
}

type services struct {
	mockMode  *service.MockModeService
	storage   *service.StorageService
	analytics *service.AnalyticsService
	job       *service.JobService
	report    *service.ReportService
}

type controllers struct {
	analytics *controller.AnalyticsController
	job       *controller.JobController
	report    *controller.ReportController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新回调入口，由configwatcher触发
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("config reloaded")
}

func (a *App) initRepositories(cfg *config.Config) *repositories {
	return &repositories{
		reports: repository.NewReportsRepository(&cfg.Upstream),
		job:     repository.NewJobRepository(&cfg.Upstream),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.mockMode = service.NewMockModeService(repos.job, &cfg.Mock)
	s.storage = service.NewStorageService(cfg)
	s.analytics = service.NewAnalyticsService(repos.reports, s.mockMode, rdb, &cfg.Cache)
	s.job = service.NewJobService(repos.job)
	s.report = service.NewReportService(repos.reports, s.storage, s.mockMode)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, rdb *redis.Client) *controllers {
	return &controllers{
		analytics: controller.NewAnalyticsController(s.analytics),
		job:       controller.NewJobController(s.job),
		report:    controller.NewReportController(s.report),
		health:    controller.NewHealthController(rdb, repos.job),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests == 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window == 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	// 缓存是可选加速层，Redis不可用时降级为直连上游
	var rdb *redis.Client
	if cfg.Cache.Enabled {
		var err error
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Warn("Failed to initialize redis, analytics cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	app := &App{
		Config: cfg,
		Redis:  rdb,
	}

	repos := app.initRepositories(cfg)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("hireview-analytics", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
