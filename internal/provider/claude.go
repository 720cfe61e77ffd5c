package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const anthropicVersion = "2023-06-01"

type ClaudeConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// ClaudeClient talks to the Anthropic messages endpoint. It implements both
// Generator and Coach; no retries, the provider's max_tokens caps output size.
type ClaudeClient struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

func NewClaudeClient(cfg ClaudeConfig) (*ClaudeClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClaudeClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    strings.TrimSpace(cfg.APIKey),
		model:     model,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *ClaudeClient) GenerateSchema(ctx context.Context, prompt string) (Generation, error) {
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
	return Generation{SQL: text, Source: SourceClaude, Model: c.model}, nil
}

func (c *ClaudeClient) ExplainError(ctx context.Context, req CoachingRequest) (Coaching, error) {
	text, err := c.complete(ctx, buildCoachingPrompt(req))
	if err != nil {
		return Coaching{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Coaching{}, fmt.Errorf("model returned empty coaching")
	}
	coaching := parseCoaching(text)
	coaching.Source = SourceClaude
	return coaching, nil
}

func (c *ClaudeClient) complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal messages payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build messages request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request messages completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawRespBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read messages response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("messages request failed status=%d body=%s", resp.StatusCode, string(rawRespBody))
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(rawRespBody, &parsed); err != nil {
		return "", fmt.Errorf("decode messages response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("empty messages content")
	}
	return strings.TrimSpace(parsed.Content[0].Text), nil
}
