package kotone

import "context"

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

// turn is one recorded message unit in a chat's history.
type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type commandHandlerFunc = func(context.Context, messageSender, int64, []string) error
