package kotone

import (
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultModel          = "gpt-4o-mini"
	DefaultMaxTurns       = 20
	DefaultHistoryFile    = "chat_history.json"
	DefaultRequestTimeout = 60 * time.Second
)

// Config configures the model, the history window and the backing file.
type Config struct {
	Model          string
	MaxTurns       int
	HistoryFile    string
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	if c.HistoryFile == "" {
		c.HistoryFile = DefaultHistoryFile
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return c
}

// LoadConfigFile reads an optional JSON config file. A missing file yields
// the defaults; fields absent from the file keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := Config{}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg.withDefaults(), nil
	}
	if err != nil {
		return cfg, err
	}
	if !gjson.ValidBytes(raw) {
		return cfg, fmt.Errorf("config file %s is not valid JSON", path)
	}

	if v := gjson.GetBytes(raw, "model"); v.Exists() {
		cfg.Model = v.String()
	}
	if v := gjson.GetBytes(raw, "max_turns"); v.Exists() {
		cfg.MaxTurns = int(v.Int())
	}
	if v := gjson.GetBytes(raw, "history_file"); v.Exists() {
		cfg.HistoryFile = v.String()
	}
	if v := gjson.GetBytes(raw, "request_timeout_seconds"); v.Exists() {
		cfg.RequestTimeout = time.Duration(v.Int()) * time.Second
	}

	return cfg.withDefaults(), nil
}
