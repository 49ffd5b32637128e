package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"paytrack/internal/datastore"
	"paytrack/internal/events"
	"paytrack/internal/holiday"
	"paytrack/internal/leave"
	"paytrack/internal/localstore"
	"paytrack/internal/messaging/kafka/consumer"
	"paytrack/internal/overtime"
	"paytrack/internal/salary"
	"paytrack/internal/shared/connection"
	"paytrack/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer keeps the read models current: it replays entity change events
// into the in-memory datastore and the Redis localstore, after seeding the
// datastore straight from Postgres.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	userService := user.NewService(sqlDB, user.NewRepository(gormDB))
	salaryService := salary.NewService(sqlDB, salary.NewRepository(gormDB))
	overtimeService := overtime.NewService(sqlDB, overtime.NewRepository(gormDB))
	leaveService := leave.NewService(sqlDB, leave.NewRepository(gormDB))

	backend := datastore.NewServiceBackend(userService, salaryService, overtimeService, leaveService)
	store := datastore.NewStore(backend)

	mirror := consumer.Mirror{
		Data:      store,
		Users:     localstore.New[user.UserResponse](rdb, localstore.CollectionUsers),
		Salaries:  localstore.New[salary.SalaryResponse](rdb, localstore.CollectionSalaries),
		Overtimes: localstore.New[overtime.OvertimeResponse](rdb, localstore.CollectionOvertimes),
		Leaves:    localstore.New[leave.LeaveResponse](rdb, localstore.CollectionLeaves),
		Holidays:  localstore.New[holiday.HolidayResponse](rdb, localstore.CollectionHolidays),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Refresh(ctx); err != nil {
		logger.Warn("initial datastore refresh incomplete", zap.Error(err))
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.EntityChangedTopic,
		GroupID:        "paytrack-mirror",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	go consumer.ConsumeEntityChanged(ctx, reader, mirror, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
