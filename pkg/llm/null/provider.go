package null

import (
	"context"

	"resume-turns-be/pkg/llm"
)

const echoLimit = 200

// NullProvider answers every prompt with an echo. It keeps the completion
// endpoint usable when no real model is configured.
type NullProvider struct{}

var _ llm.LLMProvider = NullProvider{}

func NewNullProvider() NullProvider {
	return NullProvider{}
}

func (NullProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	runes := []rune(prompt)
	if len(runes) > echoLimit {
		runes = runes[:echoLimit]
	}
	return "[LLM disabled] echo: " + string(runes), nil
}

// Chat echoes the most recent user message.
func (p NullProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return p.Generate(ctx, history[i].Content, opts...)
		}
	}
	return p.Generate(ctx, "", opts...)
}
