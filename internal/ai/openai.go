package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI chat-completions provider.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAI generates text with OpenAI chat completions.
type OpenAI struct {
	model  string
	client *goopenai.Client
	logger *slog.Logger
}

var _ Provider = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI provider. A missing API key yields a provider
// that fails every call with ErrNotConfigured.
func NewOpenAI(cfg OpenAIConfig, logger *slog.Logger) *OpenAI {
	if logger == nil {
		logger = slog.Default()
	}
	model := cfg.Model
	if model == "" {
		model = goopenai.GPT4o
	}
	o := &OpenAI{
		model:  model,
		logger: logger.With(slog.String("module", "openai")),
	}
	if cfg.APIKey != "" {
		clientCfg := goopenai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		o.client = goopenai.NewClientWithConfig(clientCfg)
	}
	return o
}

// Name implements Provider.
func (o *OpenAI) Name() string { return "openai" }

// Generate sends a system+user chat completion.
func (o *OpenAI) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if o.client == nil {
		return "", ErrNotConfigured
	}

	msgs := make([]goopenai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	msgs = append(msgs, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := o.client.CreateChatCompletion(ctx, o.chatRequest(msgs, req))
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices found")
	}

	o.logger.Debug("chat completion finished",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) chatRequest(msgs []goopenai.ChatCompletionMessage, req GenerateRequest) goopenai.ChatCompletionRequest {
	r := goopenai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSON {
		r.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return r
}
