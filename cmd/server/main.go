package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/Skotchmaster/stockcart/internal/config"
	"github.com/Skotchmaster/stockcart/internal/db"
	"github.com/Skotchmaster/stockcart/internal/events"
	"github.com/Skotchmaster/stockcart/internal/httpserver"
	"github.com/Skotchmaster/stockcart/internal/logging"
	"github.com/Skotchmaster/stockcart/internal/metrics"
	loggingmw "github.com/Skotchmaster/stockcart/internal/middleware/logging"
	"github.com/Skotchmaster/stockcart/internal/repo"
	"github.com/Skotchmaster/stockcart/internal/search"
	"github.com/Skotchmaster/stockcart/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DB)
	if err == nil {
		err = db.Migrate(ctx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	publisher := newPublisher(cfg.Kafka, logger)
	indexer := newIndexer(cfg.Search, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &repo.GormRepo{DB: gdb}
	catalog := &service.CatalogService{Repo: r, Events: publisher, Index: indexer}
	purchases := &service.PurchaseService{Repo: r, Catalog: catalog, Events: publisher, Metrics: metrics.New(reg)}
	carts := &service.CartService{Repo: r, Events: publisher}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog, Purchases: purchases},
		CartHandler:    &httpserver.CartHTTP{Svc: carts, Purchases: purchases},
		Ready:          func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Gatherer:       reg,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "db_driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdown(srv, gdb, publisher, logger)
}

func newPublisher(cfg config.KafkaConfig, logger *slog.Logger) events.Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Info("kafka brokers not set, events disabled")
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(cfg)
}

func newIndexer(cfg config.SearchConfig, logger *slog.Logger) search.Indexer {
	if cfg.URL == "" {
		logger.Info("search url not set, indexing disabled")
		return search.NopIndexer{}
	}
	idx, err := search.NewESIndexer(cfg)
	if err != nil {
		logger.Warn("search client unavailable, indexing disabled", "error", err)
		return search.NopIndexer{}
	}
	return idx
}

func shutdown(srv *http.Server, gdb *gorm.DB, publisher events.Publisher, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close", "error", err)
	}
	logger.Info("stopped")
}
