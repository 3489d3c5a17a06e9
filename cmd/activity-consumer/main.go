// Command activity-consumer records user activity events from RabbitMQ in
// a log file.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/city-weather/internal/config"
	"github.com/iliyamo/city-weather/internal/logging"
	"github.com/iliyamo/city-weather/internal/queue"
)

func main() {
	cfg := config.LoadConsumer()
	logger := logging.New(os.Stdout, cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: cfg.RabbitMQURL, LogPath: cfg.ActivityLogPath, Logger: logger}
	logger.Info("activity-consumer started", "queue", queue.ActivityQueueName, "log", cfg.ActivityLogPath)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
