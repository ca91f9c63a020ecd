package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tweetline/tweetline/internal/config"
	"github.com/tweetline/tweetline/internal/workers"
	"github.com/tweetline/tweetline/pkg/cache"
	"github.com/tweetline/tweetline/pkg/logger"
	"github.com/tweetline/tweetline/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger()
	logger.Info("Starting tweetline engagement worker...")

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	tweetEventsConsumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.TweetEvents, "engagement-worker-group")

	worker := workers.NewEngagementWorker(redisClient, tweetEventsConsumer, logger)

	go func() {
		if err := worker.Start(ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("Engagement worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	if err := worker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop engagement worker")
	}

	logger.Info("Worker exited")
}
