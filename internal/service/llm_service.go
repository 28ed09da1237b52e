package service

import (
	"context"

	"resume-turns-be/internal/dto"
	"resume-turns-be/pkg/llm"
)

type ILLMService interface {
	Complete(ctx context.Context, req *dto.LLMCompleteRequest) (*dto.LLMCompleteResponse, error)
}

type llmService struct {
	providerName string
	provider     llm.LLMProvider
}

func NewLLMService(providerName string, provider llm.LLMProvider) ILLMService {
	return &llmService{providerName: providerName, provider: provider}
}

func (s *llmService) Complete(ctx context.Context, req *dto.LLMCompleteRequest) (*dto.LLMCompleteResponse, error) {
	out, err := s.provider.Generate(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}
	return &dto.LLMCompleteResponse{Provider: s.providerName, Output: out}, nil
}
