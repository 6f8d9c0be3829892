package kotone

import (
	"context"
	"strings"

	"github.com/chhongzh/shlex"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func (a *Kotone) handlerForTextMessage(ctx context.Context, bt *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	chatText := strings.TrimSpace(update.Message.Text)
	username := update.Message.Chat.Username

	a.logger.Info("message received",
		zap.Int64("Chat ID", chatID),
		zap.String("Username", username),
		zap.String("Chat Text", chatText),
	)

	if err := a.routeText(ctx, bt, chatID, chatText); err != nil {
		a.logger.Error("handling message failed",
			zap.Int64("Chat ID", chatID),
			zap.Error(err),
		)
	}
}

func (a *Kotone) handleCommand(ctx context.Context, snd messageSender, chatID int64, commandLine string) error {
	parts, err := shlex.Split(commandLine)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}

	return a.executeCommand(ctx, snd, parts[0], chatID, parts[1:])
}
