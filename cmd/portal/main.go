package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"portal/docs"
	"portal/internal/application"
	"portal/pkg/broker"
	"portal/pkg/cache"
	"portal/pkg/config"
	"portal/pkg/db"
	"portal/pkg/httpserver"
	"portal/pkg/metrics"
	"portal/pkg/observability"

	"github.com/prometheus/client_golang/prometheus"
)

// @title           Portal Service API
// @version         1.0
// @description     Модули портала: триггеры событий (birthday, news, weather), leveling, контакты, активы, присутствие

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @BasePath /portal/api

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf, err := config.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.InitLogger(conf.LoggingLevel, conf.Log)

	logger.Infof("LOGGING_LEVEL = %s", conf.LoggingLevel)
	if strings.ToLower(conf.LoggingLevel) == "debug" {
		broker.EnableSaramaZapLogs(logger)
	}

	docs.SwaggerInfo.Host = conf.Server.SwaggerHost
	docs.SwaggerInfo.Schemes = []string{conf.Server.SwaggerSchema}

	m := metrics.New(prometheus.DefaultRegisterer)

	fiberServer := httpserver.NewFiber(conf, m, prometheus.DefaultGatherer)
	if fiberServer == nil {
		logger.Fatal(errors.New("fiber server is nil"))
	}

	postgres, err := db.NewPostgres(ctx, conf.Postgres)
	if err != nil {
		logger.Fatal(err)
	}

	mongo, err := db.NewMongo(ctx, conf.Mongo)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infof("mongodb connected, database: %s, transactions: %v", conf.Mongo.Database, conf.Mongo.Transactions)

	var redis *cache.Redis
	if conf.Redis.Addr != "" {
		owner, _ := os.Hostname()
		redis, err = cache.NewRedis(ctx, conf.Redis, owner)
		if err != nil {
			logger.Fatal(err)
		}
		logger.Infof("redis connected: %s, cron locks enabled", conf.Redis.Addr)
	} else {
		logger.Warn("redis не настроен: cron задачи выполняются на каждой реплике")
	}

	kafka, err := broker.NewKafkaBroker(conf.Broker.Kafka, logger)
	if err != nil {
		logger.Fatal(err)
	}

	server, err := application.NewApp(ctx, &conf, logger,
		application.Stores{Postgres: postgres, Mongo: mongo, Redis: redis},
		fiberServer, kafka, m)
	if err != nil {
		logger.Fatal(err)
	}

	logger.Info("Portal service started successfully")
	logger.Info(fmt.Sprintf("Server config: %+v", conf.Server))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("error listening for server: %v", err)
				return
			}

			logger.Infof("server %v closed", conf.Server.Port)
		}
	}()

	//graceful shutdown
	osSignal := <-interrupt
	switch osSignal {
	case os.Interrupt:
		logger.Infof("%v Got SIGINT...", conf.Server.Port)
	case syscall.SIGTERM:
		logger.Infof("%v Got SIGTERM...", conf.Server.Port)
	}

	cancel()

	if err := server.Shutdown(); err != nil {
		logger.Errorf("server %v shutdown: %v", conf.Server.Port, err)
		return
	}

	logger.Infof("server shutdown %v done", conf.Server.Port)
}
