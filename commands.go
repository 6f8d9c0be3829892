package kotone

import (
	"context"
	"strconv"
)

const helpText = `I can remember our conversation.
Commands:
/start - Start bot
/help - Help menu
/reset - Clear memory`

// executeCommand dispatches a parsed command to its handler.
func (a *Kotone) executeCommand(ctx context.Context, snd messageSender, command string, chatID int64, args []string) error {
	handlers := map[string]commandHandlerFunc{
		"start": a.handleStart,
		"help":  a.handleHelp,
		"reset": a.handleReset,
	}

	if handler, ok := handlers[command]; ok {
		return handler(ctx, snd, chatID, args)
	}

	_, err := a.sendMessageTo(ctx, snd, chatID, "Unknown command. Send /help for the list.")
	return err
}

// handleStart makes sure a session exists but keeps any existing turns.
func (a *Kotone) handleStart(ctx context.Context, snd messageSender, chatID int64, _ []string) error {
	a.store.getOrCreate(strconv.FormatInt(chatID, 10))

	_, err := a.sendMessageTo(ctx, snd, chatID, "Hello! I am your bot. How can I help you today?")
	return err
}

func (a *Kotone) handleHelp(ctx context.Context, snd messageSender, chatID int64, _ []string) error {
	_, err := a.sendMessageTo(ctx, snd, chatID, helpText)
	return err
}

// handleReset clears the chat's history and persists the empty state right
// away.
func (a *Kotone) handleReset(ctx context.Context, snd messageSender, chatID int64, _ []string) error {
	a.store.reset(strconv.FormatInt(chatID, 10))
	if err := a.store.persist(); err != nil {
		return err
	}

	_, err := a.sendMessageTo(ctx, snd, chatID, "Chat history cleared!")
	return err
}
