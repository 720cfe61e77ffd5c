package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// OpenAIClient is the OpenAI-compatible alternate backend, for deployments
// pointing at a chat-completions endpoint instead of Anthropic.
type OpenAIClient struct {
	api       *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	apiCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	}

	return &OpenAIClient{
		api:       openai.NewClientWithConfig(apiCfg),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

func (c *OpenAIClient) GenerateSchema(ctx context.Context, prompt string) (Generation, error) {
	if strings.TrimSpace(prompt) == "" {
		return Generation{}, fmt.Errorf("prompt is required")
	}
	text, err := c.complete(ctx, buildSchemaPrompt(prompt))
	if err != nil {
		return Generation{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Generation{}, fmt.Errorf("model returned empty schema")
	}
	return Generation{SQL: text, Source: SourceOpenAI, Model: c.model}, nil
}

func (c *OpenAIClient) ExplainError(ctx context.Context, req CoachingRequest) (Coaching, error) {
	text, err := c.complete(ctx, buildCoachingPrompt(req))
	if err != nil {
		return Coaching{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Coaching{}, fmt.Errorf("model returned empty coaching")
	}
	coaching := parseCoaching(text)
	coaching.Source = SourceOpenAI
	return coaching, nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
