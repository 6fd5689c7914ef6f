package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kube-assistant/kube-assistant/internal/config"
	"github.com/kube-assistant/kube-assistant/internal/logging"
)

// OpenAIClient completes against the OpenAI API or an Azure OpenAI
// deployment, selected by the resolved configuration.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	provider config.Provider
	logger   *slog.Logger
	tools    []openai.Tool
}

// NewOpenAIClient builds a client from the effective configuration. The
// config is expected to have passed resolution, so required credentials for
// the selected provider are present.
func NewOpenAIClient(cfg config.Config, logger *slog.Logger) (*OpenAIClient, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var clientCfg openai.ClientConfig
	switch cfg.Provider {
	case config.ProviderAzure:
		clientCfg = openai.DefaultAzureConfig(cfg.Azure.APIKey, cfg.Azure.Endpoint)
		clientCfg.APIVersion = cfg.Azure.APIVersion
		deployment := cfg.Azure.Deployment
		clientCfg.AzureModelMapperFunc = func(string) string { return deployment }
	case config.ProviderOpenAI:
		clientCfg = openai.DefaultConfig(cfg.OpenAI.APIKey)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	apiKey := cfg.OpenAI.APIKey
	if cfg.Provider == config.ProviderAzure {
		apiKey = cfg.Azure.APIKey
	}
	logger.Debug("configured model client",
		logging.Provider(string(cfg.Provider)),
		logging.Model(cfg.ModelID()),
		logging.Host(clientCfg.BaseURL),
		logging.Token(apiKey))

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.ModelID(),
		provider: cfg.Provider,
		logger:   logger,
		tools:    toolDefinitions(),
	}, nil
}

// Complete sends the conversation with the declared tool schema and maps the
// response to the structured Completion form. Transport and API failures
// come back as *CapabilityError so the caller can apply its retry policy.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toChatMessages(messages),
		Tools:    c.tools,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Warn("chat completion failed",
			logging.Provider(string(c.provider)),
			logging.Err(err))
		return Completion{}, &CapabilityError{Provider: string(c.provider), Err: err}
	}
	if len(resp.Choices) == 0 {
		return Completion{}, &CapabilityError{
			Provider: string(c.provider),
			Err:      fmt.Errorf("response contained no choices"),
		}
	}

	choice := resp.Choices[0].Message
	completion := Completion{Content: choice.Content}
	for _, call := range choice.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return completion, nil
}

func toChatMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		converted := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			converted.ToolCalls = append(converted.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		out = append(out, converted)
	}
	return out
}
