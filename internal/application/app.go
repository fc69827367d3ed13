package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portal/internal/application/bus"
	"portal/internal/application/common"
	"portal/internal/application/registry"
	"portal/internal/application/repo"
	"portal/internal/application/service"
	"portal/internal/application/use-cases"
	"portal/internal/controllers/cron"
	"portal/internal/controllers/handler"
	"portal/internal/controllers/listener"
	"portal/internal/transport/producer"
	"portal/pkg/broker"
	"portal/pkg/cache"
	"portal/pkg/config"
	"portal/pkg/db"
	"portal/pkg/httpclient"
	"portal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Stores внешние хранилища сервиса. Redis опционален.
type Stores struct {
	Postgres *db.Postgres
	Mongo    *db.Mongo
	Redis    *cache.Redis
}

type App struct {
	ctx            context.Context
	conf           *config.Config
	logger         *zap.SugaredLogger
	stores         Stores
	httpServer     *fiber.App
	httpClient     *httpclient.Client
	kafka          *broker.KafkaBroker
	cronController *cron.Controller
}

func NewApp(
	ctx context.Context,
	conf *config.Config,
	logger *zap.SugaredLogger,
	stores Stores,
	httpServer *fiber.App,
	kafkaBroker *broker.KafkaBroker,
	m *metrics.Metrics) (*App, error) {
	//Логируем версию приложения
	logger.Infof("Запуск Portal Service версии: %s", common.Version)

	if err := stores.Mongo.EnsureIndexes(ctx, repo.Indexes()); err != nil {
		return nil, err
	}

	reg, err := registry.New(conf.Cron.Jobs())
	if err != nil {
		return nil, err
	}

	hooks, err := listener.ParseWebhooks(conf.Webhooks)
	if err != nil {
		return nil, err
	}

	store := repo.NewRepo(stores.Postgres, logger)
	tx := repo.NewTransactions(store, logger)
	documents := repo.NewDocuments(stores.Mongo, m, logger)
	kafkaProducer := producer.NewProducer(kafkaBroker, logger, conf.Broker.Kafka.MaxAttempts, m)

	checks := []service.HealthCheck{
		{Name: "postgres", Type: "postgresql", Check: store.HealthCheck},
		{Name: "mongodb", Type: "mongodb", Check: documents.HealthCheck},
		{Name: "kafka", Type: "kafka", Check: kafkaProducer.HealthCheck},
	}
	// без Redis locker остается nil-интерфейсом
	var locker cron.Locker
	if stores.Redis != nil {
		checks = append(checks, service.HealthCheck{Name: "redis", Type: "redis", Check: stores.Redis.Ping})
		locker = stores.Redis
	}

	srv := service.NewService(store, tx, kafkaProducer, checks, m, logger, &conf.Relay)
	emitter := service.NewEmitter(tx, m, logger)

	modules := handler.Modules{
		Leveling: service.NewLeveling(documents, emitter, logger),
		Contacts: service.NewContacts(documents, logger),
		Assets:   service.NewAssets(documents, emitter, logger),
		Presence: service.NewPresence(documents, emitter, common.LoadLocation(conf.Presence.Timezone), logger),
	}

	eventBus := bus.New(m, logger)
	eventBus.Subscribe("audit", "*", listener.AuditLogger(logger))

	httpClient := httpclient.NewClient(conf.HTTPClient)
	listener.NewWebhookForwarder(httpclient.NewRetryClient(httpClient, conf.HTTPClient.MaxRetries, logger), logger).
		Subscribe(eventBus, hooks)
	for _, h := range hooks {
		logger.Infof("webhook %s -> %s", h.Pattern, h.URL)
	}

	uc := use_cases.NewUseCase(srv, emitter, reg, eventBus, logger)
	h := handler.NewHandler(uc, modules, logger)
	r := handler.NewRouter(h, httpServer, conf, reg, logger)

	// Инициализация cron контроллера
	cronController := cron.NewController(ctx, conf.Cron, locker, m, logger)
	if err := cronController.RegisterBindings(uc, reg.Scheduled()); err != nil {
		return nil, fmt.Errorf("не удалось зарегистрировать cron задачи: %w", err)
	}
	if err := cronController.RegisterPurgeOutboxJob(uc, conf.Cron.PurgeSchedule); err != nil {
		return nil, fmt.Errorf("не удалось зарегистрировать cron задачу очистки outbox: %w", err)
	}
	cronController.Start()

	go uc.RunRelay(ctx)

	r.RegisterRouter()

	app := &App{
		ctx:            ctx,
		conf:           conf,
		logger:         logger,
		stores:         stores,
		httpServer:     httpServer,
		httpClient:     httpClient,
		kafka:          kafkaBroker,
		cronController: cronController,
	}

	go listener.Run(ctx, kafkaBroker.ConsumerGroup, kafkaBroker.ConsumerTopic,
		listener.NewKafkaBrokerConsumer(uc, logger, m), logger)

	return app, nil
}

func (a *App) Run() error {
	return a.httpServer.Listen(fmt.Sprintf(":%s", a.conf.Server.Port))
}

// Shutdown останавливает cron и HTTP, затем закрывает брокер и хранилища
func (a *App) Shutdown() error {
	var errs []error

	// Останавливаем cron задачи
	if a.cronController != nil {
		a.cronController.Stop()
	}
	errs = append(errs, a.httpServer.Shutdown())

	a.logger.Info("закрытие kafka producer и consumer group")
	errs = append(errs, a.kafka.Close())
	a.httpClient.CloseIdle()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	errs = append(errs, a.stores.Mongo.Close(ctx))
	if a.stores.Redis != nil {
		errs = append(errs, a.stores.Redis.Close())
	}
	a.stores.Postgres.Close()
	a.logger.Info("postgres db connection closed")

	return errors.Join(errs...)
}
