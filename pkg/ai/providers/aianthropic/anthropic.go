package aianthropic

import (
	"context"
	"os"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 8192
)

// AnthropicProvider implements llm.LLM over the Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	apiKey string
}

func NewAnthropicProvider(apiKey string, opts ...option.RequestOption) *AnthropicProvider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	options := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicProvider{
		client: anthropic.NewClient(options...),
		apiKey: apiKey,
	}
}

func (p *AnthropicProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	if p.apiKey == "" {
		return llm.Response{}, errorRegistry.New(ErrMissingAPIKey)
	}
	if len(messages) == 0 {
		return llm.Response{}, errorRegistry.New(ErrEmptyMessages)
	}

	options := llm.Apply(llm.ChatOptions{Model: DefaultModel, MaxTokens: defaultMaxTokens}, opts...)
	system, rest := llm.SplitSystem(messages)
	if len(rest) == 0 {
		return llm.Response{}, errorRegistry.New(ErrEmptyMessages)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(options.Model),
		MaxTokens: int64(options.MaxTokens),
		Messages:  convertMessages(rest, options.JSONMode),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if options.Temperature != 0 {
		params.Temperature = anthropic.Float(float64(options.Temperature))
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return llm.Response{}, ParseAnthropicError(err).
			WithDetail("model", options.Model).
			WithDetail("num_messages", len(messages))
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	content := text.String()
	if options.JSONMode {
		content = "{" + content
	}
	if strings.TrimSpace(content) == "" {
		return llm.Response{}, errorRegistry.New(ErrEmptyResponse).WithDetail("stop_reason", string(msg.StopReason))
	}

	return llm.Response{
		Message:      llm.NewAssistantMessage(content),
		Model:        string(msg.Model),
		FinishReason: string(msg.StopReason),
		Usage: llm.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}

// convertMessages maps turns onto Anthropic params. JSON mode is emulated by
// prefilling the assistant turn with an opening brace.
func convertMessages(messages []llm.Message, jsonMode bool) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages)+1)
	for _, m := range messages {
		if m.Role == llm.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}
	if jsonMode {
		out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock("{")))
	}
	return out
}
