package kotone

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	reply string
	err   error
	calls [][]turn
}

func (f *fakeCompleter) complete(_ context.Context, turns []turn) (string, error) {
	f.calls = append(f.calls, turns)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	actions int
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params.Text)
	return &models.Message{}, nil
}

func (f *fakeSender) SendChatAction(_ context.Context, _ *bot.SendChatActionParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions++
	return true, nil
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.sent...)
}

func newTestKotone(t *testing.T, c completer) *Kotone {
	t.Helper()
	cfg := Config{}.withDefaults()
	return &Kotone{
		logger:    zap.NewNop(),
		config:    cfg,
		store:     newHistoryStore(filepath.Join(t.TempDir(), "history.json"), cfg.MaxTurns),
		completer: c,
	}
}

func TestShortcutSkipsStoreAndPersistence(t *testing.T) {
	fc := &fakeCompleter{reply: "should not be called"}
	a := newTestKotone(t, fc)
	snd := &fakeSender{}

	if err := a.routeText(context.Background(), snd, 1, "hello"); err != nil {
		t.Fatalf("routeText failed: %v", err)
	}

	sent := snd.messages()
	if len(sent) != 1 || sent[0] != cannedReply(intentGreeting) {
		t.Fatalf("expected the canned greeting, got %v", sent)
	}
	if len(fc.calls) != 0 {
		t.Fatal("shortcut path must not call the completer")
	}
	if _, ok := a.store.sessions["1"]; ok {
		t.Fatal("shortcut path must not create a session")
	}
	if _, err := os.Stat(a.store.path); !os.IsNotExist(err) {
		t.Fatal("shortcut path must not persist the store")
	}
}

func TestChatRoundRecordsBothTurns(t *testing.T) {
	fc := &fakeCompleter{reply: "Here is one."}
	a := newTestKotone(t, fc)
	snd := &fakeSender{}

	if err := a.routeText(context.Background(), snd, 2, "Tell me a joke"); err != nil {
		t.Fatalf("routeText failed: %v", err)
	}

	turns := a.store.sessions["2"]
	if len(turns) != 2 {
		t.Fatalf("expected 2 stored turns, got %d", len(turns))
	}
	if turns[0].Role != roleUser || turns[0].Content != "Tell me a joke" {
		t.Fatalf("unexpected user turn: %#v", turns[0])
	}
	if turns[1].Role != roleAssistant || turns[1].Content != "Here is one." {
		t.Fatalf("unexpected assistant turn: %#v", turns[1])
	}

	if len(fc.calls) != 1 || len(fc.calls[0]) != 1 {
		t.Fatalf("expected one completion call with one turn, got %#v", fc.calls)
	}

	sent := snd.messages()
	if len(sent) != 1 || sent[0] != "Here is one." {
		t.Fatalf("expected the model reply to be emitted, got %v", sent)
	}

	reloaded := newHistoryStore(a.store.path, DefaultMaxTurns)
	if err := reloaded.load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := reloaded.turnCount("2"); got != 2 {
		t.Fatalf("expected 2 persisted turns for chat 2, got %d", got)
	}
}

func TestCompletionFailureFallsBack(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("api down")}
	a := newTestKotone(t, fc)
	snd := &fakeSender{}

	if err := a.routeText(context.Background(), snd, 5, "translate that for me"); err != nil {
		t.Fatalf("routeText failed: %v", err)
	}

	sent := snd.messages()
	if len(sent) != 1 || sent[0] != fallbackReply {
		t.Fatalf("expected the fallback reply, got %v", sent)
	}

	turns := a.store.sessions["5"]
	if len(turns) != 2 {
		t.Fatalf("expected 2 stored turns, got %d", len(turns))
	}
	if turns[1].Role != roleAssistant || turns[1].Content != fallbackReply {
		t.Fatalf("fallback must be recorded as the assistant turn, got %#v", turns[1])
	}
}

func TestWindowAcrossRounds(t *testing.T) {
	fc := &fakeCompleter{reply: "ack"}
	a := newTestKotone(t, fc)
	snd := &fakeSender{}

	for i := 1; i <= 15; i++ {
		msg := fmt.Sprintf("msg-%d", i)
		if err := a.routeText(context.Background(), snd, 9, msg); err != nil {
			t.Fatalf("round %d failed: %v", i, err)
		}
	}

	turns := a.store.sessions["9"]
	if len(turns) != 20 {
		t.Fatalf("expected window of 20 turns, got %d", len(turns))
	}
	// 15 rounds produce 30 turns; the retained window starts at round 6.
	if turns[0].Role != roleUser || turns[0].Content != "msg-6" {
		t.Fatalf("unexpected oldest retained turn: %#v", turns[0])
	}
	if turns[19].Role != roleAssistant || turns[19].Content != "ack" {
		t.Fatalf("unexpected newest retained turn: %#v", turns[19])
	}
}

func TestStepTransitions(t *testing.T) {
	fc := &fakeCompleter{reply: "ok"}
	a := newTestKotone(t, fc)
	snd := &fakeSender{}
	ctx := context.Background()

	// Commands terminate at Dispatch.
	m := &inboundText{chatID: 1, key: "1", text: "/help"}
	st, err := a.step(ctx, snd, stateDispatch, m)
	if err != nil || st != stateDone {
		t.Fatalf("command dispatch: state %d, err %v", st, err)
	}

	// A shortcut match jumps from ShortcutCheck to Emit.
	m = &inboundText{chatID: 1, key: "1", text: "hello"}
	if st, _ = a.step(ctx, snd, stateDispatch, m); st != stateShortcutCheck {
		t.Fatalf("plain text after dispatch: got state %d", st)
	}
	if st, _ = a.step(ctx, snd, stateShortcutCheck, m); st != stateEmit {
		t.Fatalf("shortcut match: got state %d", st)
	}

	// A non-match traverses the full chain.
	m = &inboundText{chatID: 1, key: "1", text: "tell me a joke"}
	want := []routeState{stateRecordUser, stateGenerate, stateRecordAssistant, statePersist, stateEmit, stateDone}
	st = stateShortcutCheck
	for _, w := range want {
		st, err = a.step(ctx, snd, st, m)
		if err != nil {
			t.Fatalf("step to %d failed: %v", w, err)
		}
		if st != w {
			t.Fatalf("got state %d, want %d", st, w)
		}
	}
}
