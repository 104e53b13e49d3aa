package app

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"portfolio_backend/internal/config"
	"portfolio_backend/internal/controller"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/configwatcher"
	"portfolio_backend/pkg/database"
	"portfolio_backend/pkg/logger"
	"portfolio_backend/pkg/monitoring"
	"portfolio_backend/pkg/security"
	"portfolio_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	sweepCancel     context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	profile    *repository.ProfileRepository
	post       *repository.PostRepository
	siteConfig *repository.SiteConfigRepository
	course     *repository.CourseRepository
	video      *repository.VideoRepository
	exercise   *repository.ExerciseRepository
	progress   *repository.ProgressRepository
	badge      *repository.BadgeRepository
}

type services struct {
	storage    *service.StorageService
	auth       *service.AuthService
	profile    *service.ProfileService
	post       *service.PostService
	site       *service.SiteService
	course     *service.CourseService
	video      *service.VideoService
	exercise   *service.ExerciseService
	badge      *service.BadgeService
	progress   *service.ProgressService
	submission *service.SubmissionService
	executor   *service.Judge0Service
	grader     *service.GeminiService
}

type controllers struct {
	health     *controller.HealthController
	auth       *controller.AuthController
	post       *controller.PostController
	profile    *controller.ProfileController
	siteConfig *controller.SiteConfigController
	course     *controller.CourseController
	video      *controller.VideoController
	exercise   *controller.ExerciseController
	progress   *controller.ProgressController
	badge      *controller.BadgeController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		profile:    repository.NewProfileRepository(db),
		post:       repository.NewPostRepository(db),
		siteConfig: repository.NewSiteConfigRepository(db),
		course:     repository.NewCourseRepository(db),
		video:      repository.NewVideoRepository(db),
		exercise:   repository.NewExerciseRepository(db),
		progress:   repository.NewProgressRepository(db),
		badge:      repository.NewBadgeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.profile = service.NewProfileService(repos.profile, s.storage)
	s.post = service.NewPostService(repos.post, s.storage)
	s.site = service.NewSiteService(repos.siteConfig, s.storage)
	s.course = service.NewCourseService(repos.course, repos.video, repos.exercise)
	s.video = service.NewVideoService(repos.video, s.storage)
	s.exercise = service.NewExerciseService(repos.exercise, rdb)
	s.badge = service.NewBadgeService(repos.badge, repos.progress)
	s.progress = service.NewProgressService(db, repos.progress, repos.course, repos.video, repos.exercise, s.badge, rdb)

	s.executor = service.NewJudge0Service(cfg.Judge0)
	s.grader = service.NewGeminiService(cfg.AI)
	s.submission = service.NewSubmissionService(db, repos.exercise, repos.progress, s.badge, s.executor, s.grader, rdb)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:     controller.NewHealthController(db, rdb),
		auth:       controller.NewAuthController(s.auth),
		post:       controller.NewPostController(s.post),
		profile:    controller.NewProfileController(s.profile),
		siteConfig: controller.NewSiteConfigController(s.site),
		course:     controller.NewCourseController(s.course, s.progress),
		video:      controller.NewVideoController(s.video, s.progress),
		exercise:   controller.NewExerciseController(s.exercise, s.submission),
		progress:   controller.NewProgressController(s.progress),
		badge:      controller.NewBadgeController(s.badge),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 后台任务：每小时全量巡检一次徽章，
// 兜住 time_based 这类只随时钟满足的条件
func (a *App) startBackgroundTasks(s *services) {
	ctx, cancel := context.WithCancel(context.Background())
	a.sweepCancel = cancel

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.badge.Sweep(ctx)
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger ready", zap.String("mode", cfg.Server.Mode))

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// 迁移策略：非 release 模式默认自动迁移，release 模式需要 --migrate 显式开启
	if cfg.Server.Mode != "release" || cfg.ForceMigrate || cfg.MigrateOnly {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		database.Seed(db)
		logger.Log.Info("Database migration completed")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只承担缓存，连不上时降级为直查数据库
		logger.Log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 视频上传依赖本机 ffmpeg，缺失时降级：探测与封面截取不可用
	if _, err := util.GetFFmpegVersion(); err != nil {
		logger.Log.Warn("ffmpeg not available, video probing and thumbnails disabled", zap.Error(err))
	}

	monitoring.Init()

	// tracer 先于中间件就位，第一个请求的 span 才能接上全局 provider
	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("portfolio-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	router := gin.Default()
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	// 配置热加载：沙箱地址和 AI Key 的轮换不需要重启进程
	app.RegisterConfigCallback(func(updated *config.Config) {
		services.executor.UpdateConfig(updated.Judge0)
		services.grader.UpdateConfig(updated.AI)
	})
	go func() {
		err := configwatcher.Watch("configs/config.yaml", func(updated *config.Config) {
			logger.Log.Info("Config reloaded, notifying services")
			for _, cb := range app.configCallbacks {
				cb(updated)
			}
		})
		if err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()

	return app
}

// Run 启动 HTTP 服务并阻塞到退出信号，随后按依赖逆序收尾
func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Log.Info("Shutdown signal received")

	// 先停徽章巡检，避免关闭阶段还在写库
	if a.sweepCancel != nil {
		a.sweepCancel()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Info("Server exited")
}
