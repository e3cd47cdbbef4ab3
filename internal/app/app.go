package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"testit_backend/internal/config"
	"testit_backend/internal/controller"
	"testit_backend/internal/repository"
	"testit_backend/internal/service"
	"testit_backend/pkg/database"
	"testit_backend/pkg/logger"
	"testit_backend/pkg/monitoring"
	"testit_backend/pkg/sandbox"
	"testit_backend/pkg/security"
	"testit_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user         *repository.UserRepository
	organization *repository.OrganizationRepository
	group        *repository.GroupRepository
	test         *repository.TestRepository
	completion   *repository.CompletionRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	organization *service.OrganizationService
	group        *service.GroupService
	test         *service.TestService
	completion   *service.CompletionService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	organization *controller.OrganizationController
	group        *controller.GroupController
	test         *controller.TestController
	completion   *controller.CompletionController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		organization: repository.NewOrganizationRepository(db),
		group:        repository.NewGroupRepository(db),
		test:         repository.NewTestRepository(db),
		completion:   repository.NewCompletionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	storage, err := service.NewStorageProvider(cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	runner := sandbox.NewRunner(sandbox.Config{
		Interpreter:   cfg.Sandbox.Interpreter,
		HelperScript:  cfg.Sandbox.HelperScript,
		Timeout:       time.Duration(cfg.Sandbox.TimeoutSeconds) * time.Second,
		MaxConcurrent: cfg.Sandbox.MaxConcurrent,
	})
	grader := service.NewCodeGrader(runner, repos.completion)

	s := &services{}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.organization, storage)
	s.organization = service.NewOrganizationService(repos.organization, repos.user)
	s.group = service.NewGroupService(repos.group, repos.user)
	s.test = service.NewTestService(repos.test, repos.group, rdb)
	s.completion = service.NewCompletionService(repos.completion, repos.test, grader)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		organization: controller.NewOrganizationController(s.organization),
		group:        controller.NewGroupController(s.group),
		test:         controller.NewTestController(s.test, s.completion),
		completion:   controller.NewCompletionController(s.completion),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("testit-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		router.Static("/media", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
