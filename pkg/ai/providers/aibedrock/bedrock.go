package aibedrock

import (
	"context"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const DefaultModel = "anthropic.claude-sonnet-4-20250514-v1:0"

// ConverseAPI is the subset of *bedrockruntime.Client used here.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type ProviderOption func(*BedrockProvider)

func WithDefaultModel(model string) ProviderOption {
	return func(p *BedrockProvider) {
		if model != "" {
			p.defaultModel = model
		}
	}
}

// BedrockProvider implements llm.LLM over the Converse API.
type BedrockProvider struct {
	client       ConverseAPI
	defaultModel string
}

func NewBedrockProvider(cfg aws.Config, opts ...ProviderOption) *BedrockProvider {
	return New(bedrockruntime.NewFromConfig(cfg), opts...)
}

func New(client ConverseAPI, opts ...ProviderOption) *BedrockProvider {
	p := &BedrockProvider{client: client, defaultModel: DefaultModel}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *BedrockProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	if len(messages) == 0 {
		return llm.Response{}, errorRegistry.New(ErrEmptyMessages)
	}

	options := llm.Apply(llm.ChatOptions{Model: p.defaultModel}, opts...)
	system, rest := llm.SplitSystem(messages)
	if len(rest) == 0 {
		return llm.Response{}, errorRegistry.New(ErrEmptyMessages)
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(options.Model),
		Messages: convertMessages(rest),
	}
	if system != "" {
		input.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: system}}
	}

	inference := &types.InferenceConfiguration{}
	if options.MaxTokens > 0 {
		inference.MaxTokens = aws.Int32(int32(options.MaxTokens))
	}
	if options.Temperature != 0 {
		inference.Temperature = aws.Float32(options.Temperature)
	}
	input.InferenceConfig = inference

	output, err := p.client.Converse(ctx, input)
	if err != nil {
		return llm.Response{}, ParseBedrockError(err).
			WithDetail("model", options.Model).
			WithDetail("num_messages", len(messages))
	}
	return convertResponse(output, options.Model)
}

func convertMessages(messages []llm.Message) []types.Message {
	out := make([]types.Message, 0, len(messages))
	for _, m := range messages {
		role := types.ConversationRoleUser
		if m.Role == llm.RoleAssistant {
			role = types.ConversationRoleAssistant
		}
		out = append(out, types.Message{
			Role:    role,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: m.Content}},
		})
	}
	return out
}

func convertResponse(output *bedrockruntime.ConverseOutput, model string) (llm.Response, error) {
	msg, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return llm.Response{}, errorRegistry.New(ErrAPIResponse).WithDetail("error", "unexpected output type")
	}

	var text strings.Builder
	for _, block := range msg.Value.Content {
		if t, ok := block.(*types.ContentBlockMemberText); ok {
			text.WriteString(t.Value)
		}
	}

	resp := llm.Response{
		Message:      llm.NewAssistantMessage(text.String()),
		Model:        model,
		FinishReason: string(output.StopReason),
	}
	if u := output.Usage; u != nil {
		resp.Usage = llm.Usage{
			PromptTokens:     int(aws.ToInt32(u.InputTokens)),
			CompletionTokens: int(aws.ToInt32(u.OutputTokens)),
			TotalTokens:      int(aws.ToInt32(u.TotalTokens)),
		}
	}
	return resp, nil
}
