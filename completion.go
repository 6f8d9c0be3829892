package kotone

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
)

// completer produces one reply for a chat's accumulated turns.
type completer interface {
	complete(ctx context.Context, turns []turn) (string, error)
}

var errEmptyCompletion = errors.New("completion returned no choices")

// openaiCompleter makes one best-effort request per call. No retry, no
// backoff; the router decides what a failure turns into.
type openaiCompleter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// complete sends the whole history as a single user message whose content
// is every turn's text joined in order, regardless of role. The model sees
// undifferentiated text; role tags only exist in the persisted history.
func (c *openaiCompleter) complete(ctx context.Context, turns []turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(concatTurns(turns)),
		},
		Model: c.model,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

func concatTurns(turns []turn) string {
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, t.Content)
	}
	return strings.Join(parts, "\n")
}
