package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fraudlab/fraudsim/internal/api"
	"github.com/fraudlab/fraudsim/internal/config"
	"github.com/fraudlab/fraudsim/internal/domain/notify"
	"github.com/fraudlab/fraudsim/internal/obs"
	"github.com/fraudlab/fraudsim/internal/ratelimit"
	kafkaRepo "github.com/fraudlab/fraudsim/internal/repository/kafka"
	pg "github.com/fraudlab/fraudsim/internal/repository/postgres"
	redisRepo "github.com/fraudlab/fraudsim/internal/repository/redis"
	"github.com/fraudlab/fraudsim/internal/services/scheduler"
)

func main() {
	cfgPath := flag.String("config", "", "path to config yaml")
	flag.Parse()

	// init
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	l.Info("starting fraudsim",
		zap.String("notify_driver", cfg.Notify.Driver),
		zap.String("api_addr", cfg.API.Addr),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
	)

	// otel
	otelCloser, err := obs.SetupOTel(ctx, &cfg.OTEL)
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// db
	db, err := pg.NewDB(ctx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// notification channel
	var (
		pub      notify.Publisher
		pubClose func() error
	)
	switch cfg.Notify.Driver {
	case "kafka":
		prod := kafkaRepo.NewProducer(cfg.Notify.Kafka.Brokers, cfg.Notify.Kafka.Topic).WithLogger(l)
		pub = kafkaRepo.NewPublisher(prod)
		pubClose = prod.Close
	default:
		rp := redisRepo.NewPublisher(cfg.Notify.Redis, l)
		pub = rp
		pubClose = rp.Close
	}

	// metrics server
	healthFn := func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return db.Pool.Ping(hctx)
	}
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, healthFn, l)

	// wiring
	scenarios := pg.NewScenarioRepo(db)
	results := pg.NewResultRepo(db)
	exec := scheduler.NewExecutor(l, scenarios, results, pub, cfg.Sched.HTTPTimeout)
	sched := scheduler.New(l, scenarios, exec, pub, scheduler.Config{
		Tick:    cfg.Sched.Tick,
		Backoff: cfg.Sched.Backoff,
	})

	limiter := ratelimit.New(cfg.API.RateLimit.Requests, cfg.API.RateLimit.Window)
	apiSrv := api.NewServer(l, sched, scenarios, results, limiter, healthFn).Bootstrap(cfg.API.Addr)

	// run
	errCh := make(chan error, 1)
	go func() { errCh <- sched.Run(ctx) }()

	l.Info("fraudsim started")

	// loop
	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("scheduler loop error", zap.Error(err))
		}
	}

	// graceful shutdown: scheduler run-state first, then transports
	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = apiSrv.Shutdown(shCtx)
	_ = ms.Shutdown(shCtx)
	sched.Close()
	if err := pubClose(); err != nil {
		l.Warn("publisher close", zap.Error(err))
	}
	l.Info("bye")
}
