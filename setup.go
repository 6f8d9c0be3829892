package kotone

import "github.com/go-telegram/bot"

func (a *Kotone) setupBot() error {
	opts := []bot.Option{
		bot.WithDefaultHandler(a.handlerForTextMessage),
	}

	bt, err := bot.New(a.botToken, opts...)
	if err != nil {
		return err
	}

	a.bot = bt
	a.logger.Info("bot initialized")

	return nil
}
