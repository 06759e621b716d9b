package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stay/config"
	"stay/infras/kafka"
	"stay/internal/notifier"
	"stay/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := notifier.New(cfg, kafka.New(cfg))
	worker.Run(ctx)
}
