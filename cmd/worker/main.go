package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/tixxety/tixxety/internal/adapter/scheduler"
	"github.com/tixxety/tixxety/internal/adapter/storage"
	"github.com/tixxety/tixxety/internal/clock"
	"github.com/tixxety/tixxety/internal/config"
	"github.com/tixxety/tixxety/internal/core/service"
	"github.com/tixxety/tixxety/internal/logging"
)

// The worker consumes matured expiry jobs from RabbitMQ and applies the
// reserved-to-expired transition. It runs alongside any number of API servers.
func main() {
	log := logging.New()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	amqpConn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		log.Error("failed to connect rabbitmq", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()
	log.Info("connected to rabbitmq")

	amqpScheduler, err := scheduler.NewAMQPScheduler(amqpConn, log)
	if err != nil {
		log.Error("failed to set up amqp scheduler", "error", err)
		os.Exit(1)
	}

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)
	reservations := service.NewReservationService(
		mysqlAdapter, mysqlAdapter, mysqlAdapter,
		redisAdapter, amqpScheduler, clock.NewSystem(), log,
		service.WithGracePeriod(cfg.Reservation.GracePeriod),
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		cancel()
	}()

	log.Info("expiry worker started")
	if err := amqpScheduler.Consume(ctx, reservations); err != nil {
		log.Error("expiry consumer stopped", "error", err)
		os.Exit(1)
	}
	log.Info("expiry worker stopped")
}
