package kotone

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// fallbackReply is what the user sees when the completion call fails. It is
// recorded as a real assistant turn so the conversation continues.
const fallbackReply = "Sorry, I couldn't process that right now."

// routeState enumerates the steps one inbound message moves through.
type routeState int

const (
	stateDispatch routeState = iota
	stateShortcutCheck
	stateRecordUser
	stateGenerate
	stateRecordAssistant
	statePersist
	stateEmit
	stateDone
)

// inboundText carries one message through the router.
type inboundText struct {
	chatID int64
	key    string // string form of chatID, the store key
	text   string
	reply  string
}

// routeText walks one message through the router states, starting at
// Dispatch. The store lock is held for the whole traversal so concurrent
// chats cannot interleave a read-modify-write on a session or a persist.
func (a *Kotone) routeText(ctx context.Context, snd messageSender, chatID int64, text string) error {
	a.storeLock.Lock()
	defer a.storeLock.Unlock()

	m := &inboundText{
		chatID: chatID,
		key:    strconv.FormatInt(chatID, 10),
		text:   text,
	}

	st := stateDispatch
	for st != stateDone {
		var err error
		st, err = a.step(ctx, snd, st, m)
		if err != nil {
			return err
		}
	}

	return nil
}

// step runs one router state and returns the next. A shortcut match jumps
// straight to Emit, leaving the store and its file untouched; every other
// non-command message runs RecordUser through Emit exactly once. Generate
// never fails the message: a completion error becomes the fallback reply.
func (a *Kotone) step(ctx context.Context, snd messageSender, st routeState, m *inboundText) (routeState, error) {
	switch st {
	case stateDispatch:
		if strings.HasPrefix(m.text, "/") {
			return stateDone, a.handleCommand(ctx, snd, m.chatID, strings.TrimSpace(m.text[1:]))
		}
		return stateShortcutCheck, nil

	case stateShortcutCheck:
		if in := matchIntent(m.text); in != intentNone {
			m.reply = cannedReply(in)
			return stateEmit, nil
		}
		return stateRecordUser, nil

	case stateRecordUser:
		a.store.getOrCreate(m.key)
		a.store.appendTurn(m.key, roleUser, m.text)
		return stateGenerate, nil

	case stateGenerate:
		stopTyping := a.startTypingLoop(ctx, snd, m.chatID)
		reply, err := a.completer.complete(ctx, a.store.snapshot(m.key))
		stopTyping()
		if err != nil {
			a.logger.Error("completion failed",
				zap.String("Chat ID", m.key),
				zap.Error(err),
			)
			reply = fallbackReply
		}
		m.reply = reply
		return stateRecordAssistant, nil

	case stateRecordAssistant:
		a.store.appendTurn(m.key, roleAssistant, m.reply)
		return statePersist, nil

	case statePersist:
		if err := a.store.persist(); err != nil {
			a.logger.Error("persist failed", zap.Error(err))
		}
		a.logger.Info("round complete",
			zap.String("Chat ID", m.key),
			zap.Int("TotalTurns", a.store.turnCount(m.key)),
		)
		return stateEmit, nil

	case stateEmit:
		_, err := a.sendMessageTo(ctx, snd, m.chatID, m.reply)
		return stateDone, err
	}

	return stateDone, nil
}

// startTypingLoop keeps the typing chat action alive while a reply is being
// generated. The returned func stops it.
func (a *Kotone) startTypingLoop(ctx context.Context, snd messageSender, chatID int64) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(time.Second * 6)

	go func() {
		fn := func() {
			err := a.sendChatAction(ctx, snd, chatID, models.ChatActionTyping)
			if err != nil {
				a.logger.Error("typing action failed", zap.Error(err))
			}
		}
		fn()
		for {
			select {
			case <-done:
				ticker.Stop()
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return func() {
		close(done)
	}
}
