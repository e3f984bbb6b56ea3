package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"classifieds-api/config"
	"classifieds-api/internal/application/ports"
	"classifieds-api/internal/application/services"
	"classifieds-api/internal/infrastructure/db/postgres"
	"classifieds-api/internal/infrastructure/db/postgres/category"
	"classifieds-api/internal/infrastructure/db/postgres/listing"
	"classifieds-api/internal/infrastructure/db/postgres/user"
	"classifieds-api/internal/infrastructure/jwt"
	"classifieds-api/internal/infrastructure/logger"
	"classifieds-api/internal/infrastructure/metrics"
	"classifieds-api/internal/infrastructure/mq"
	"classifieds-api/internal/interface/api/rest"
	"classifieds-api/internal/interface/api/rest/middleware"
	"classifieds-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	flush      func()
	cfg        config.Config
	db         *pgxpool.Pool
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// config
	// a missing .env is fine: the environment may already be populated
	_ = godotenv.Load(".env")
	cfg := config.Load()

	// logger
	logger, flush := logger.New(logger.Options{
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	})

	if err := cfg.Validate(); err != nil {
		flush()
		return nil, err
	}

	// metrics
	mCounter := metrics.NewCounter()
	duration := metrics.NewRequestDuration(prometheus.DefaultRegisterer)

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.App.CORSOrigins))
	r.Use(middleware.RateLimitPerIP(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst))
	r.Use(middleware.RequestLogGin(logger, mCounter, duration))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	if cfg.DB.Migrate {
		if err = postgres.RunMigrations(dbDsn, logger); err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// rabbitMQ
	rbMQ := mq.New(cfg.MQ, logger)
	var rmqConsumer ports.RMQConsumer
	if cfg.MQ.Enabled {
		rabbitDsn, err := cfg.AMQPDSN()
		if err != nil {
			logger.Fatal("RabbitMQ config error", zap.Error(err))
		}
		if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
			logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
		}
		if err = rbMQ.Init(); err != nil {
			logger.Fatal("failed init rabbitMQ", zap.Error(err))
		}

		//rmqConsumer
		c := rmqconsumer.New(cfg.MQ, logger, nil)
		if err = c.Connect(rabbitDsn); err != nil {
			logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
		}
		if err = c.Init(); err != nil {
			logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
		}
		rmqConsumer = c
	} else {
		logger.Warn("rabbitmq disabled, domain events are dropped")
	}

	return &App{
		logger:     logger,
		flush:      flush,
		cfg:        cfg,
		db:         dbPool,
		httpSrv:    httpSrv,
		router:     r,
		mCounter:   mCounter,
		mq:         rbMQ,
		mqConsumer: rmqConsumer,
	}, nil
}

func (a *App) Close() {
	if a.mqConsumer != nil {
		a.mqConsumer.Close()
	}
	if conn := a.mq.GetConn(); conn != nil && !conn.IsClosed() {
		_ = conn.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.flush != nil {
		a.flush()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	// errgroup carries the first worker error and cancels the rest through ctx
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)
	categoryRepo := category.NewRepository(a.db)
	listingRepo := listing.NewRepository(a.db)
	tx := postgres.NewTransactor(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret, a.cfg.App.JWTTTL)
	authService := services.NewAuthService(userRepo, jwtService)
	userService := services.NewUserService(userRepo, categoryRepo, listingRepo, tx, a.mq, a.mCounter)
	categoryService := services.NewCategoryService(categoryRepo, listingRepo, userRepo, tx, a.mq, a.mCounter)
	listingService := services.NewListingService(
		listingRepo, categoryRepo, userRepo, tx, a.mq, a.mCounter, a.cfg.App.ListingOwnerCheck,
	)

	// controllers
	rest.NewAuthController(a.router, a.logger, authService)
	rest.NewUserController(a.router, userService, listingService, a.logger, jwtService)
	rest.NewCategoryController(a.router, categoryService, listingService, a.logger, jwtService)
	rest.NewListingController(a.router, listingService, a.logger, jwtService)

	// ops
	a.router.GET(rest.RouteHealth, a.healthz)
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := a.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *App) Logger() *zap.Logger { return a.logger }
