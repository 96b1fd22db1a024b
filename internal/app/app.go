package app

import (
	"context"
	"errors"
	"istqb_study_backend/internal/config"
	"istqb_study_backend/internal/controller"
	"istqb_study_backend/internal/repository"
	"istqb_study_backend/internal/service"
	"istqb_study_backend/pkg/configwatcher"
	"istqb_study_backend/pkg/database"
	"istqb_study_backend/pkg/keylock"
	"istqb_study_backend/pkg/logger"
	"istqb_study_backend/pkg/monitoring"
	"istqb_study_backend/pkg/security"
	"istqb_study_backend/pkg/tracing"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Cron            *cron.Cron
	limiter         *security.Limiter
	tracer          *sdktrace.TracerProvider
	repos           *repositories
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	content   service.ContentStore
	attempt   *repository.AttemptRepository
	progress  *repository.ProgressRepository
	dashboard *repository.DashboardRepository
}

type services struct {
	content   *service.ContentService
	quiz      *service.QuizService
	attempt   *service.AttemptService
	progress  *service.ProgressService
	dashboard *service.DashboardService
}

type controllers struct {
	module    *controller.ModuleController
	quiz      *controller.QuizController
	progress  *controller.ProgressController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// initRepositories 启用 Redis 时内容读取走缓存
func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	contentRepo := repository.NewContentRepository(db)
	var content service.ContentStore = contentRepo
	if rdb != nil {
		content = repository.NewCachedContentRepository(contentRepo, rdb, cfg.Quiz.ContentCacheTTL)
	}

	return &repositories{
		content:   content,
		attempt:   repository.NewAttemptRepository(db),
		progress:  repository.NewProgressRepository(db),
		dashboard: repository.NewDashboardRepository(db),
	}
}

// initServices 多副本部署时进度锁必须放在 Redis 上
func (a *App) initServices(repos *repositories, rdb *redis.Client, cfg *config.Config) *services {
	var locker keylock.Locker = keylock.NewLocalLocker()
	if rdb != nil {
		locker = keylock.NewRedisLocker(rdb, cfg.Lock.TTL, cfg.Lock.RetryInterval)
	}

	return &services{
		content:   service.NewContentService(repos.content),
		quiz:      service.NewQuizService(repos.content, service.DefaultRandomizer()),
		attempt:   service.NewAttemptService(repos.content, repos.attempt),
		progress:  service.NewProgressService(repos.content, repos.progress, locker),
		dashboard: service.NewDashboardService(repos.content, repos.dashboard),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		module:    controller.NewModuleController(s.content),
		quiz:      controller.NewQuizController(s.quiz, s.attempt),
		progress:  controller.NewProgressController(s.progress),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	a.limiter = security.NewLimiter(cfg.RateLimit.MaxRequests, window)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// refreshPendingAttempts 定时刷新未提交尝试数量
func (a *App) refreshPendingAttempts() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := a.repos.attempt.CountPendingAttempts(ctx)
	if err != nil {
		logger.Log.Error("Failed to count pending attempts", zap.Error(err))
		return
	}
	monitoring.PendingAttempts.Set(float64(count))
}

func (a *App) startBackgroundTasks(ctx context.Context) error {
	a.Cron = cron.New()
	if _, err := a.Cron.AddFunc(a.Config.Scheduler.StatsRefreshSpec, a.refreshPendingAttempts); err != nil {
		return err
	}
	a.Cron.Start()

	go a.limiter.Sweep(ctx)
	return nil
}

// applyConfig 热更新只调整日志级别并通知回调，连接类配置需要重启
func (a *App) applyConfig(cfg *config.Config) {
	logger.Reload(cfg)
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// New 使用已建立的连接组装应用，测试中传入 sqlite 和 nil redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	app.repos = app.initRepositories(db, rdb, cfg)
	app.services = app.initServices(app.repos, rdb, cfg)
	ctrls := app.initControllers(app.services, db, rdb)

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, cfg)

	return app
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Error("Failed to initialize database", zap.Error(err))
		return nil, err
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		if cfg.Database.Seed {
			if err := database.Seed(db, cfg.Quiz.DefaultPassingScore); err != nil {
				return nil, err
			}
		}
	}

	rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
	if err != nil {
		logger.Log.Error("Failed to initialize redis", zap.Error(err))
		return nil, err
	}

	// 监控初始化
	monitoring.Init()

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
			return nil, err
		}
		app.tracer = tp
	}

	return app, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.startBackgroundTasks(ctx); err != nil {
		return err
	}

	if a.Config.ConfigFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.ConfigFile, a.applyConfig); err != nil {
				logger.Log.Warn("Config watcher disabled", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return err
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	<-a.Cron.Stop().Done()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
	_ = logger.Log.Sync()
	return nil
}
