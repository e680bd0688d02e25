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

	"github.com/partsline/storefront/internal/cart"
	config "github.com/partsline/storefront/internal/cfg"
	v1Http "github.com/partsline/storefront/internal/delivery/v1/http"
	"github.com/partsline/storefront/internal/infrastructure/kafka"
	minioInfra "github.com/partsline/storefront/internal/infrastructure/minio"
	s3Repo "github.com/partsline/storefront/internal/repository/minio"
	"github.com/partsline/storefront/internal/repository/pgdb"
	pgdbConv "github.com/partsline/storefront/internal/repository/pgdb/converter"
	"github.com/partsline/storefront/internal/repository/redis"
	redisConv "github.com/partsline/storefront/internal/repository/redis/converter"
	"github.com/partsline/storefront/internal/usecase"
	"github.com/partsline/storefront/pkg/clients"
	"github.com/partsline/storefront/pkg/closer"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
	"github.com/partsline/storefront/pkg/postgres"
)

// App собирает все зависимости сервиса и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	outboxWorker *kafka.OutboxWorker
	imagesInfra  *minioInfra.MinioInfrastructure

	shutdownCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(2 * time.Second)

	// Контекст фоновых задач, живущий до остановки приложения
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		cfg:            cfg,
		logger:         log,
		closer:         cl,
		shutdownCancel: shutdownCancel,
	}

	db, err := initPGDB(log, cfg)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add("postgres pool", func(ctx context.Context) error {
		db.Close()
		log.Infof("PostgreSQL pool closed")
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	catConv := pgdbConv.NewCategoryConverterImpl()
	orderConv := pgdbConv.NewOrderConverterImpl()
	outboxConv := pgdbConv.NewOutboxEventConverterImpl()
	infoConv := redisConv.NewProductInfoConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, catConv)
	orderRepo := pgdb.NewOrderRepo(db.Pool, orderConv)
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
	app.imagesInfra = minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, shutdownCtx)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add("redis client", func(ctx context.Context) error {
		if err := redisClient.Client.Close(); err != nil {
			return e.Wrap("redis close", err)
		}
		log.Infof("Redis connection closed")
		return nil
	})

	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, cfg.Redis, log)
	cartStorage := redis.NewCartStorage(redisClient, cfg.Cart)
	carts := cart.NewManager(cartStorage, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add("kafka producer", func(ctx context.Context) error {
		if err := producer.Close(); err != nil {
			return e.Wrap("kafka producer close", err)
		}
		log.Infof("Kafka producer closed")
		return nil
	})

	app.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	productUC := usecase.NewProductUC(
		productRepo,
		categoryRepo,
		outboxRepo,
		db.Pool,
		app.imagesInfra,
		log,
		cacheRepo,
	)
	catalogUC := usecase.NewCatalogUC(productRepo, categoryRepo, log)
	cartUC := usecase.NewCartUC(carts, productRepo, cacheRepo, log)
	checkoutUC := usecase.NewCheckoutUC(carts, orderRepo, outboxRepo, db.Pool, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(productUC, catalogUC, cartUC, checkoutUC)

	app.httpSrv = v1Http.NewServer(r, cfg.Http)

	return app, nil
}

// Run запускает фоновые компоненты и HTTP-сервер, блокируясь до сигнала
// завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	a.outboxWorker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	workerCancel()
	a.outboxWorker.Stop()
	a.logger.Infof("Outbox worker stopped")

	if err := a.imagesInfra.WaitForCleanup(shutdownCtx); err != nil {
		a.logger.Warnf("MinIO cleanup error: %v", err)
	} else {
		a.logger.Infof("MinIO cleanup completed")
	}

	a.shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("Resource shutdown finished with errors: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
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
