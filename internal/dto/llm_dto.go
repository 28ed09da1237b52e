package dto

type LLMCompleteRequest struct {
	Prompt string `json:"prompt"`
}

type LLMCompleteResponse struct {
	Provider string `json:"provider"`
	Output   string `json:"output"`
}
