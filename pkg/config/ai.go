package config

import "time"

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderBedrock   = "bedrock"
	ProviderAzure     = "azure"
	ProviderNone      = "none"
)

type AIConfig struct {
	// WriterProvider selects the Content Generator backend.
	WriterProvider string  `env:"WRITER_PROVIDER" envDefault:"openai"`
	WriterModel    string  `env:"WRITER_MODEL"`
	MaxTokens      int     `env:"WRITER_MAX_TOKENS" envDefault:"8192"`
	Temperature    float32 `env:"WRITER_TEMPERATURE" envDefault:"0.7"`

	// ImageProvider selects the Illustration Generator backend.
	ImageProvider string `env:"IMAGE_PROVIDER" envDefault:"none"`
	ImageModel    string `env:"IMAGE_MODEL"`
	ImageSize     string `env:"IMAGE_SIZE"`
	ImageCount    int    `env:"IMAGE_COUNT" envDefault:"3"`

	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`

	AWSRegion string `env:"AWS_REGION" envDefault:"us-east-1"`

	AzureEndpoint   string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureAPIKey     string `env:"AZURE_OPENAI_API_KEY"`
	AzureAPIVersion string `env:"AZURE_OPENAI_API_VERSION" envDefault:"2024-10-21"`

	// RequestTimeout bounds one provider call.
	RequestTimeout time.Duration `env:"AI_REQUEST_TIMEOUT" envDefault:"5m"`
}

func (a *AIConfig) Sanitize() {
	if a.MaxTokens <= 0 {
		a.MaxTokens = 8192
	}
	if a.Temperature < 0 || a.Temperature > 2 {
		a.Temperature = 0.7
	}
	if a.ImageCount <= 0 || a.ImageCount > 8 {
		a.ImageCount = 3
	}
	if a.RequestTimeout <= 0 {
		a.RequestTimeout = 5 * time.Minute
	}
}
