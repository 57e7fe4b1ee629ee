package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultOpenAIModel = "gpt-4.1"

// OpenAIProvider — премиальный провайдер поверх chat completions API
// с token bucket лимитером.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	limiter *RateLimiter
	logger  *zap.Logger
}

func NewOpenAIProvider(apiKey, model string, logger *zap.Logger, requestsPerMinute, tokensPerHour int) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		client:  openai.NewClient(apiKey),
		model:   model,
		limiter: NewRateLimiter(requestsPerMinute, tokensPerHour),
		logger:  logger,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	if err := p.limiter.AllowRequest(ctx); err != nil {
		return "", err
	}

	// Грубая оценка токенов промпта до фактического запроса
	estimated := (len(req.Prompt)+len(req.SystemPrompt))/4 + req.MaxTokens
	if err := p.limiter.AllowTokens(ctx, estimated); err != nil {
		return "", err
	}

	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка запроса к OpenAI: %w", err)
	}

	// Корректируем бюджет по фактическому расходу
	if resp.Usage.TotalTokens > 0 && resp.Usage.TotalTokens > estimated {
		p.limiter.ConsumeTokens(resp.Usage.TotalTokens - estimated)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI вернул пустой ответ")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	p.logger.Debug("ответ OpenAI получен",
		zap.String("model", p.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens))
	return answer, nil
}
