package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/tixxety/tixxety/internal/adapter/handler"
	"github.com/tixxety/tixxety/internal/adapter/scheduler"
	"github.com/tixxety/tixxety/internal/adapter/storage"
	"github.com/tixxety/tixxety/internal/clock"
	"github.com/tixxety/tixxety/internal/config"
	"github.com/tixxety/tixxety/internal/core/service"
	"github.com/tixxety/tixxety/internal/logging"
	"github.com/tixxety/tixxety/internal/port"
	"github.com/tixxety/tixxety/migrations"
)

const shutdownTimeout = 5 * time.Second

func main() {
	log := logging.New()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Error("failed to open mysql", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping mysql", "error", err)
		os.Exit(1)
	}
	log.Info("connected to mysql")

	if err := migrations.Apply(ctx, db); err != nil {
		log.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to redis")

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)

	if err := warmCapacityLedger(ctx, mysqlAdapter, redisAdapter); err != nil {
		log.Error("failed to warm capacity ledger", "error", err)
		os.Exit(1)
	}
	log.Info("capacity ledger warmed")

	// Expiry scheduler: RabbitMQ when reachable, otherwise in-process timers.
	var (
		expiryScheduler port.ExpiryScheduler
		timerScheduler  *scheduler.TimerScheduler
	)
	amqpConn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		log.Warn("rabbitmq unavailable, expiry jobs will not survive restarts", "error", err)
		timerScheduler = scheduler.NewTimerScheduler(log)
		expiryScheduler = timerScheduler
	} else {
		defer amqpConn.Close()
		amqpScheduler, err := scheduler.NewAMQPScheduler(amqpConn, log)
		if err != nil {
			log.Error("failed to set up amqp scheduler", "error", err)
			os.Exit(1)
		}
		expiryScheduler = amqpScheduler
		log.Info("connected to rabbitmq")
	}

	clk := clock.NewSystem()
	reservations := service.NewReservationService(
		mysqlAdapter, mysqlAdapter, mysqlAdapter,
		redisAdapter, expiryScheduler, clk, log,
		service.WithGracePeriod(cfg.Reservation.GracePeriod),
	)
	users := service.NewUserService(mysqlAdapter, mysqlAdapter, mysqlAdapter, clk, log)
	events := service.NewEventService(mysqlAdapter, redisAdapter, log)

	if timerScheduler != nil {
		timerScheduler.Start(reservations)
		defer timerScheduler.Stop()
	}

	httpHandler := handler.NewHTTPHandler(log, reservations, users, events)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: httpHandler.Routes(),
	}

	go func() {
		log.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("http server stopped")
}

// warmCapacityLedger seeds the gate with every event's uncharged capacity so
// reservations survive a Redis flush or a cold start.
func warmCapacityLedger(ctx context.Context, events port.EventRepository, ledger port.CapacityLedger) error {
	remaining, err := events.RemainingCapacities(ctx)
	if err != nil {
		return err
	}
	for eventID, left := range remaining {
		if err := ledger.SetCapacity(ctx, eventID, left); err != nil {
			return err
		}
	}
	return nil
}
