// Package kotone implements a Telegram chat relay backed by a hosted
// completion API, with a bounded per-chat history persisted to a JSON file.
package kotone

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// Kotone is one bot instance.
type Kotone struct {
	ctx       context.Context
	logger    *zap.Logger
	bot       *bot.Bot
	botToken  string
	config    Config
	store     *historyStore
	completer completer

	// storeLock serializes session mutation and persistence across chats.
	storeLock sync.Mutex
}

// New creates a Kotone instance.
func New(ctx context.Context, logger *zap.Logger, openaiClient *openai.Client, botToken string, cfg Config) *Kotone {
	cfg = cfg.withDefaults()
	return &Kotone{
		ctx:      ctx,
		logger:   logger.Named("Kotone"),
		botToken: botToken,
		config:   cfg,
		store:    newHistoryStore(cfg.HistoryFile, cfg.MaxTurns),
		completer: &openaiCompleter{
			client:  openaiClient,
			model:   cfg.Model,
			timeout: cfg.RequestTimeout,
		},
	}
}

// Start loads the persisted history, connects the bot and begins polling.
// The returned channel closes when polling stops.
func (a *Kotone) Start() (<-chan struct{}, error) {
	if err := a.store.load(); err != nil {
		return nil, err
	}

	if err := a.setupBot(); err != nil {
		return nil, err
	}

	closeCh := make(chan struct{})
	go func() {
		a.bot.Start(a.ctx)
		close(closeCh)
	}()

	return closeCh, nil
}
