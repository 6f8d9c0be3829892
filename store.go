package kotone

import (
	"encoding/json"
	"fmt"
	"os"
)

// historyStore owns the per-chat turn logs and their flat-file persistence.
// The backing file is one JSON object mapping chat id to an ordered list of
// {role, content} records, rewritten in full on every persist. The write is
// not atomic; a crash mid-write can truncate the file. Accepted for this
// data.
//
// The store does no locking of its own; callers hold Kotone.storeLock.
type historyStore struct {
	path     string
	maxTurns int
	sessions map[string][]turn
}

func newHistoryStore(path string, maxTurns int) *historyStore {
	return &historyStore{
		path:     path,
		maxTurns: maxTurns,
		sessions: make(map[string][]turn),
	}
}

// load reads the persisted mapping into memory. A missing file starts the
// store empty; a file that exists but does not parse is a startup error.
func (s *historyStore) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read history file %s: %w", s.path, err)
	}

	if err := json.Unmarshal(raw, &s.sessions); err != nil {
		return fmt.Errorf("parse history file %s: %w", s.path, err)
	}

	return nil
}

// getOrCreate returns the chat's turns, creating an empty entry if absent.
func (s *historyStore) getOrCreate(chatID string) []turn {
	if _, ok := s.sessions[chatID]; !ok {
		s.sessions[chatID] = []turn{}
	}
	return s.sessions[chatID]
}

// appendTurn appends one turn, then keeps only the most recent maxTurns
// entries, dropping from the front.
func (s *historyStore) appendTurn(chatID, role, content string) {
	turns := append(s.sessions[chatID], turn{Role: role, Content: content})
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.sessions[chatID] = turns
}

// reset empties the chat's turn sequence. The entry itself stays.
func (s *historyStore) reset(chatID string) {
	s.sessions[chatID] = []turn{}
}

// snapshot returns a copy of the chat's turns.
func (s *historyStore) snapshot(chatID string) []turn {
	return append([]turn{}, s.sessions[chatID]...)
}

func (s *historyStore) turnCount(chatID string) int {
	return len(s.sessions[chatID])
}

// persist rewrites the backing file with the whole mapping.
func (s *historyStore) persist() error {
	raw, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
