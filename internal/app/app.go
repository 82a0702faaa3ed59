package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/nutrimercado/go-backend/internal/auth"
	config "github.com/nutrimercado/go-backend/internal/cfg"
	v1Http "github.com/nutrimercado/go-backend/internal/delivery/v1/http"
	"github.com/nutrimercado/go-backend/internal/infrastructure/kafka"
	minioInfra "github.com/nutrimercado/go-backend/internal/infrastructure/minio"
	s3Repo "github.com/nutrimercado/go-backend/internal/repository/minio"
	"github.com/nutrimercado/go-backend/internal/repository/pgdb"
	pgdbConv "github.com/nutrimercado/go-backend/internal/repository/pgdb/converter"
	"github.com/nutrimercado/go-backend/internal/repository/redis"
	redisConv "github.com/nutrimercado/go-backend/internal/repository/redis/converter"
	"github.com/nutrimercado/go-backend/internal/usecase"
	"github.com/nutrimercado/go-backend/pkg/clients"
	"github.com/nutrimercado/go-backend/pkg/closer"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/nutrimercado/go-backend/pkg/logger"
	"github.com/nutrimercado/go-backend/pkg/postgres"
)

// App связывает все компоненты приложения и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	httpSrv      *v1Http.Server
	outboxWorker *kafka.OutboxWorker
	closer       *closer.Closer

	shutdownCancel context.CancelFunc
	workerCtx      context.Context
	workerCancel   context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Контекст фоновых компенсаций, отменяется в самом конце shutdown
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	c := closer.NewCloser(2 * time.Second)
	c.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	prConv := pgdbConv.NewProductConverter()
	orderConv := pgdbConv.NewOrderConverter()
	outboxConv := pgdbConv.NewOutboxEventConverter()
	redisProductConv := redisConv.NewProductConverter()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	categoryRepo := pgdb.NewCategoryRepo(db.Pool)
	tagRepo := pgdb.NewTagRepo(db.Pool)
	orderRepo := pgdb.NewOrderRepo(db.Pool, orderConv)
	userRepo := pgdb.NewUserRepo(db.Pool)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, shutdownCtx)
	c.Add(func(ctx context.Context) error {
		return imagesInfra.WaitForCleanup(ctx)
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cacheRepo := redis.NewCacheRepo(redisClient, redisProductConv, cfg.Redis, log)
	c.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	c.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	tokens := auth.NewJWTManager(cfg.Auth)

	catalogUC := usecase.NewCatalogUC(productRepo, categoryRepo, tagRepo, db.Pool, imagesInfra, cacheRepo, log)
	orderUC := usecase.NewOrderUC(orderRepo, productRepo, outboxRepo, db.Pool, log)
	authUC := usecase.NewAuthUC(userRepo, tokens, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(catalogUC, orderUC, authUC, tokens)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	workerCtx, workerCancel := context.WithCancel(context.Background())

	return &App{
		cfg:            cfg,
		logger:         log,
		httpSrv:        httpSrv,
		outboxWorker:   outboxWorker,
		closer:         c,
		shutdownCancel: shutdownCancel,
		workerCtx:      workerCtx,
		workerCancel:   workerCancel,
	}, nil
}

// Run запускает воркер outbox и HTTP-сервер, блокируясь до сигнала
// завершения либо фатальной ошибки сервера.
func (a *App) Run() error {
	a.outboxWorker.Start(a.workerCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.stop()

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func (a *App) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	a.workerCancel()
	a.outboxWorker.Stop()
	a.logger.Infof("Outbox worker stopped")

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("Resource close error: %v", err)
	}

	a.shutdownCancel()
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
