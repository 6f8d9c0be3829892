package kotone

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// messageSender is the slice of *bot.Bot the handlers use; tests substitute
// a recorder.
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

func (a *Kotone) sendMessageTo(ctx context.Context, snd messageSender, chatID int64, msg string) (*models.Message, error) {
	return snd.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   msg,
	})
}

func (a *Kotone) sendChatAction(ctx context.Context, snd messageSender, chatID int64, newAction models.ChatAction) error {
	_, err := snd.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: newAction,
	})

	return err
}
