package factory

import (
	"fmt"
	"strings"

	"resume-turns-be/pkg/llm"
	"resume-turns-be/pkg/llm/null"
	"resume-turns-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL string) (llm.LLMProvider, error) {
	switch strings.ToLower(strings.TrimSpace(providerType)) {
	case "", "null":
		return null.NewNullProvider(), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
