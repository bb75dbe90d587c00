package aiopenai

import (
	"context"
	"encoding/base64"
	"os"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	DefaultChatModel  = "gpt-5"
	DefaultImageModel = "gpt-image-1"
)

// OpenAIProvider implements llm.LLM and llm.ImageGenerator.
type OpenAIProvider struct {
	client openai.Client
	apiKey string
}

// NewOpenAIProvider falls back to OPENAI_API_KEY when apiKey is empty.
func NewOpenAIProvider(apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	options := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIProvider{
		client: openai.NewClient(options...),
		apiKey: apiKey,
	}
}

// NewFromClient wraps a preconfigured client, e.g. an Azure endpoint.
func NewFromClient(client openai.Client) *OpenAIProvider {
	return &OpenAIProvider{client: client, apiKey: "configured"}
}

func (p *OpenAIProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	if p.apiKey == "" {
		return llm.Response{}, errorRegistry.New(ErrMissingAPIKey)
	}
	if len(messages) == 0 {
		return llm.Response{}, errorRegistry.New(ErrEmptyMessages)
	}

	options := llm.Apply(llm.ChatOptions{Model: DefaultChatModel}, opts...)
	params := BuildChatParams(messages, options)

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.Response{}, ParseOpenAIError(err).
			WithDetail("model", options.Model).
			WithDetail("num_messages", len(messages))
	}
	return ConvertResponse(completion)
}

// BuildChatParams maps neutral messages and options onto a completion request.
func BuildChatParams(messages []llm.Message, options *llm.ChatOptions) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    options.Model,
	}
	if options.Temperature != 0 {
		params.Temperature = openai.Float(float64(options.Temperature))
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	return params
}

// ConvertResponse reads the first choice of a completion.
func ConvertResponse(completion *openai.ChatCompletion) (llm.Response, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return llm.Response{}, errorRegistry.New(ErrNoChoicesInResponse)
	}
	choice := completion.Choices[0]
	return llm.Response{
		Message:      llm.NewAssistantMessage(choice.Message.Content),
		Model:        completion.Model,
		FinishReason: string(choice.FinishReason),
		Usage: llm.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}, nil
}

// GenerateImage creates one image. gpt-image models return base64 data;
// older models may return a hosted URL instead.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, prompt string, opts ...llm.ImageOption) (llm.Image, error) {
	if p.apiKey == "" {
		return llm.Image{}, errorRegistry.New(ErrMissingAPIKey)
	}

	o := llm.ImageOptions{Model: DefaultImageModel, Size: "1536x1024"}
	for _, opt := range opts {
		opt(&o)
	}

	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(o.Model),
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize(o.Size),
	})
	if err != nil {
		return llm.Image{}, ParseOpenAIError(err).WithDetail("model", o.Model)
	}
	if resp == nil || len(resp.Data) == 0 {
		return llm.Image{}, errorRegistry.New(ErrNoImageInResponse)
	}

	img := resp.Data[0]
	if img.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return llm.Image{}, errorRegistry.NewWithCause(ErrAPIResponse, err)
		}
		return llm.Image{Data: data, MIMEType: "image/png"}, nil
	}
	if img.URL != "" {
		return llm.Image{URL: img.URL}, nil
	}
	return llm.Image{}, errorRegistry.New(ErrNoImageInResponse)
}
