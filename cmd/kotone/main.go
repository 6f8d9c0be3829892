package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	kotone "github.com/mizuki-dev/kotone-core"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	botToken := os.Getenv("TELEGRAM_TOKEN")
	apiKey := os.Getenv("OPENAI_API_KEY")
	if botToken == "" || apiKey == "" {
		logger.Fatal("missing TELEGRAM_TOKEN or OPENAI_API_KEY environment variable")
	}

	cfg, err := kotone.LoadConfigFile(configPath())
	if err != nil {
		logger.Fatal("loading config failed", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := openai.NewClient(option.WithAPIKey(apiKey))

	app := kotone.New(ctx, logger, &client, botToken, cfg)
	closed, err := app.Start()
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	logger.Info("bot is running")
	<-closed
}

func configPath() string {
	if p := os.Getenv("KOTONE_CONFIG"); p != "" {
		return p
	}
	return "kotone.json"
}
