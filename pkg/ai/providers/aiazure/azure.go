package aiazure

import (
	"context"
	"os"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/Abraxas-365/aiwriter/pkg/ai/providers/aiopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
)

type ProviderOption func(*AzureOpenAIProvider)

func WithAPIVersion(version string) ProviderOption {
	return func(p *AzureOpenAIProvider) {
		if version != "" {
			p.apiVersion = version
		}
	}
}

// WithAzureADCredential authenticates with Entra ID instead of an API key.
func WithAzureADCredential(cred azcore.TokenCredential) ProviderOption {
	return func(p *AzureOpenAIProvider) { p.tokenCredential = cred }
}

// WithRequestOptions appends raw client options, e.g. a base URL in tests.
func WithRequestOptions(opts ...option.RequestOption) ProviderOption {
	return func(p *AzureOpenAIProvider) { p.extra = append(p.extra, opts...) }
}

// AzureOpenAIProvider implements llm.LLM against an Azure OpenAI deployment.
// The chat model option names the deployment.
type AzureOpenAIProvider struct {
	client          openai.Client
	endpoint        string
	apiKey          string
	apiVersion      string
	deployment      string
	tokenCredential azcore.TokenCredential
	extra           []option.RequestOption
}

func NewAzureOpenAIProvider(endpoint, apiKey, deployment string, opts ...ProviderOption) *AzureOpenAIProvider {
	p := &AzureOpenAIProvider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		apiVersion: "2024-10-21",
		deployment: deployment,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.apiKey == "" {
		p.apiKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}

	clientOpts := []option.RequestOption{azure.WithEndpoint(p.endpoint, p.apiVersion)}
	if p.tokenCredential != nil {
		clientOpts = append(clientOpts, azure.WithTokenCredential(p.tokenCredential))
	} else {
		clientOpts = append(clientOpts, azure.WithAPIKey(p.apiKey))
	}
	clientOpts = append(clientOpts, p.extra...)

	p.client = openai.NewClient(clientOpts...)
	return p
}

func (p *AzureOpenAIProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	if p.endpoint == "" {
		return llm.Response{}, errorRegistry.New(ErrMissingEndpoint)
	}

	options := llm.Apply(llm.ChatOptions{Model: p.deployment}, opts...)
	if options.Model == "" {
		return llm.Response{}, errorRegistry.New(ErrMissingDeployment)
	}
	if len(messages) == 0 {
		return llm.Response{}, errorRegistry.New(aiopenai.ErrEmptyMessages)
	}

	completion, err := p.client.Chat.Completions.New(ctx, aiopenai.BuildChatParams(messages, options))
	if err != nil {
		return llm.Response{}, ParseAzureError(err).
			WithDetail("deployment", options.Model).
			WithDetail("num_messages", len(messages))
	}
	return aiopenai.ConvertResponse(completion)
}
