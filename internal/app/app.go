package app

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	platformkafka "github.com/kddeveloperhub/noteskart/platform/kafka"
	platformlogging "github.com/kddeveloperhub/noteskart/platform/logging"
	platformobservability "github.com/kddeveloperhub/noteskart/platform/observability"
	platformshutdown "github.com/kddeveloperhub/noteskart/platform/shutdown"

	httpapi "github.com/kddeveloperhub/noteskart/internal/api/http"
	"github.com/kddeveloperhub/noteskart/internal/config"
	eventkafka "github.com/kddeveloperhub/noteskart/internal/event/kafka"
	"github.com/kddeveloperhub/noteskart/internal/gateway/razorpay"
	"github.com/kddeveloperhub/noteskart/internal/notes"
	"github.com/kddeveloperhub/noteskart/internal/repository"
	mongorepo "github.com/kddeveloperhub/noteskart/internal/repository/mongo"
	postgresrepo "github.com/kddeveloperhub/noteskart/internal/repository/postgres"
	redisrepo "github.com/kddeveloperhub/noteskart/internal/repository/redis"
	"github.com/kddeveloperhub/noteskart/internal/service"
	"github.com/kddeveloperhub/noteskart/internal/telegram"
	"github.com/kddeveloperhub/noteskart/migrations"
)

// Консьюмер ретраит entitlement write с экспоненциальным backoff
const (
	consumerMaxAttempts = 5
	consumerBackoffBase = 500 * time.Millisecond
)

// App содержит все зависимости для запуска и корректного shutdown noteskart
type App struct {
	logger         *zap.Logger
	httpServer     *http.Server
	consumer       *eventkafka.EntitlementConsumer
	consumerCancel context.CancelFunc
	shutdownMgr    *platformshutdown.Manager
	wg             sync.WaitGroup
}

// Build создаёт и настраивает все зависимости noteskart
// Все клиенты конструируются один раз и передаются по ссылке — никаких ambient globals
func Build(cfg config.Config) (*App, error) {
	const op = "app.Build"

	// Создаём logger
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "noteskart",
		Env:         string(cfg.AppEnv),
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
	})
	if err != nil {
		return nil, err
	}

	buildLogger := logger.With(zap.String("op", op))
	buildLogger.Info("Building noteskart service", zap.String("http_addr", cfg.HTTPAddr))

	// Observability (noop, если OTEL_ENABLED не выставлен)
	obsCfg := platformobservability.Config{
		ServiceName:           "noteskart",
		DeploymentEnvironment: string(cfg.AppEnv),
	}
	if err := platformobservability.LoadEnv(&obsCfg); err != nil {
		return nil, err
	}
	obsShutdown, err := platformobservability.Init(context.Background(), obsCfg)
	if err != nil {
		return nil, err
	}

	// Подключаемся к MongoDB
	buildLogger.Info("Connecting to MongoDB")
	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer mongoCancel()

	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := mongoClient.Ping(mongoCtx, nil); err != nil {
		return nil, err
	}
	buildLogger.Info("MongoDB connection established")

	// Подключаемся к PostgreSQL
	buildLogger.Info("Connecting to PostgreSQL")
	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		mongoClient.Disconnect(context.Background())
		return nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		mongoClient.Disconnect(context.Background())
		return nil, err
	}
	buildLogger.Info("PostgreSQL connection established")

	// Накатываем миграции до открытия HTTP порта
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer migrateCancel()
	if err := migrations.Up(migrateCtx, cfg.PostgresDSN); err != nil {
		pool.Close()
		mongoClient.Disconnect(context.Background())
		return nil, err
	}
	buildLogger.Info("Migrations applied")

	// Redis entitlement cache (опционально)
	var entCache repository.EntitlementCache
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		buildLogger.Info("Connecting to Redis", zap.String("addr", cfg.RedisAddr))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(redisCtx).Err()
		redisCancel()
		if err != nil {
			pool.Close()
			mongoClient.Disconnect(context.Background())
			return nil, err
		}
		entCache = redisrepo.NewEntitlementCache(redisClient, logger)
		buildLogger.Info("Redis connection established")
	} else {
		buildLogger.Info("REDIS_ADDR not set, entitlement cache disabled")
	}

	// Kafka
	kafkaCfg := platformkafka.DefaultConfig()
	if err := platformkafka.LoadEnv(&kafkaCfg); err != nil {
		pool.Close()
		mongoClient.Disconnect(context.Background())
		return nil, err
	}
	publisher := eventkafka.NewKafkaPaymentEventPublisher(logger, kafkaCfg.Brokers, kafkaCfg.Topic)

	// Репозитории
	userRepo := mongorepo.NewRepository(mongoClient, cfg.MongoDB)
	paymentRepo := postgresrepo.NewRepository(pool)

	// Razorpay клиент и resolver защищённых файлов
	gateway := razorpay.NewClient(logger, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL)
	resolver := notes.NewResolver(cfg.NotesDir)

	// Service слой
	notesService := service.NewNotesService(
		logger,
		gateway,
		cfg.RazorpayKeySecret,
		userRepo,
		paymentRepo,
		entCache,
		cfg.EntitlementCacheTTL,
		resolver,
		publisher,
	)

	// Telegram уведомления (опционально)
	var notifier telegram.Sender
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifier = telegram.NewTelegramSender(logger, cfg.TelegramBotToken)
	}

	// Entitlement worker: Kafka consumer событий payment.verified
	consumer := eventkafka.NewEntitlementConsumer(
		logger,
		kafkaCfg.Brokers,
		kafkaCfg.GroupID,
		kafkaCfg.Topic,
		notesService,
		notifier,
		cfg.TelegramChatID,
		consumerMaxAttempts,
		consumerBackoffBase,
	)

	// Функция readiness для health check
	readiness := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := mongoClient.Ping(ctx, nil); err != nil {
			return false
		}
		if err := pool.Ping(ctx); err != nil {
			return false
		}
		return true
	}

	// HTTP handler и роутер
	handler := httpapi.NewHandler(logger, notesService)
	router := httpapi.NewRouter(handler, cfg.AdminToken, cfg.CORSAllowedOrigins, readiness, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // стриминг файлов дольше обычного запроса
		IdleTimeout:  60 * time.Second,
	}

	// Shutdown manager: функции выполняются в порядке, обратном регистрации
	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)
	shutdownMgr.Add("otel", obsShutdown)
	shutdownMgr.Add("mongo_client", platformshutdown.DisconnectMongo(mongoClient))
	shutdownMgr.Add("postgres_pool", platformshutdown.ClosePool(pool))
	if redisClient != nil {
		shutdownMgr.Add("redis_client", platformshutdown.CloseWithErr(redisClient))
	}
	shutdownMgr.Add("kafka_publisher", platformshutdown.CloseWithErr(publisher))
	shutdownMgr.Add("entitlement_consumer", platformshutdown.CloseWithErr(consumer))
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		consumer:    consumer,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting noteskart service", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Entitlement worker в отдельной горутине со своим контекстом
	consumerCtx, cancel := context.WithCancel(context.Background())
	a.consumerCancel = cancel
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(consumerCtx); err != nil {
			a.logger.Error("Entitlement consumer error", zap.Error(err))
		}
	}()

	// Ожидаем сигнал и выполняем shutdown
	a.shutdownMgr.Wait()
	a.consumerCancel()

	a.wg.Wait()
	a.logger.Info("noteskart service stopped")
	return nil
}
