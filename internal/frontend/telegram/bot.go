package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/MovieExplore/internal/core"
)

// Bot is the Telegram frontend of the movie explorer.
type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *sessionManager
	router   *router
	logger   *slog.Logger
}

// New creates a new Telegram Bot browsing catalog.
func New(token string, allowedUserIDs []int64, catalog core.Catalog, logger *slog.Logger) (*Bot, error) {
	if catalog == nil {
		return nil, fmt.Errorf("create telegram bot: catalog must not be nil")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Bot{
		api:      api,
		sessions: newSessionManager(allowedUserIDs, catalog, logger),
		router:   &router{catalog: catalog, logger: logger},
		logger:   logger,
	}, nil
}

// Start starts the long-polling loop. It blocks until ctx is canceled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("telegram bot started",
		slog.String("username", b.api.Self.UserName),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("telegram bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches an incoming Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		b.handleMessage(ctx, update.Message)
	}
}
