package aigemini

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"google.golang.org/genai"
)

const (
	DefaultChatModel  = "gemini-2.5-pro"
	DefaultImageModel = "imagen-4.0-generate-001"
)

type ProviderOption func(*GeminiProvider)

// WithVertexAI routes calls through Vertex AI instead of the Gemini API.
func WithVertexAI(project, location string) ProviderOption {
	return func(p *GeminiProvider) {
		p.project = project
		p.location = location
		p.useVertexAI = true
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ProviderOption {
	return func(p *GeminiProvider) { p.baseURL = url }
}

// GeminiProvider implements llm.LLM and llm.ImageGenerator.
type GeminiProvider struct {
	client      *genai.Client
	apiKey      string
	project     string
	location    string
	useVertexAI bool
	baseURL     string
}

// NewGeminiProvider falls back to GEMINI_API_KEY when apiKey is empty.
func NewGeminiProvider(ctx context.Context, apiKey string, opts ...ProviderOption) (*GeminiProvider, error) {
	p := &GeminiProvider{apiKey: apiKey}
	for _, opt := range opts {
		opt(p)
	}
	if p.apiKey == "" {
		p.apiKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg := &genai.ClientConfig{}
	if p.useVertexAI {
		cfg.Backend = genai.BackendVertexAI
		cfg.Project = p.project
		cfg.Location = p.location
	} else {
		cfg.APIKey = p.apiKey
		cfg.Backend = genai.BackendGeminiAPI
	}
	if p.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errorRegistry.NewWithCause(ErrClientInit, err)
	}
	p.client = client
	return p, nil
}

func (p *GeminiProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	if len(messages) == 0 {
		return llm.Response{}, errorRegistry.New(ErrEmptyMessages)
	}

	options := llm.Apply(llm.ChatOptions{Model: DefaultChatModel}, opts...)
	system, rest := llm.SplitSystem(messages)

	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		role := genai.Role(genai.RoleUser)
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if options.Temperature != 0 {
		config.Temperature = genai.Ptr(options.Temperature)
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	result, err := p.client.Models.GenerateContent(ctx, options.Model, contents, config)
	if err != nil {
		return llm.Response{}, ParseGeminiError(err).
			WithDetail("model", options.Model).
			WithDetail("num_messages", len(messages))
	}
	if result == nil || len(result.Candidates) == 0 {
		return llm.Response{}, errorRegistry.New(ErrAPIResponse).WithDetail("error", "no candidates in response")
	}

	candidate := result.Candidates[0]
	text := result.Text()
	if text == "" && candidate.FinishReason == genai.FinishReasonSafety {
		return llm.Response{}, errorRegistry.New(ErrBlocked)
	}

	resp := llm.Response{
		Message:      llm.NewAssistantMessage(text),
		Model:        options.Model,
		FinishReason: string(candidate.FinishReason),
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return resp, nil
}

func (p *GeminiProvider) GenerateImage(ctx context.Context, prompt string, opts ...llm.ImageOption) (llm.Image, error) {
	o := llm.ImageOptions{Model: DefaultImageModel, Size: "1280x720"}
	for _, opt := range opts {
		opt(&o)
	}

	resp, err := p.client.Models.GenerateImages(ctx, o.Model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    AspectRatio(o.Size),
	})
	if err != nil {
		return llm.Image{}, ParseGeminiError(err).WithDetail("model", o.Model)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return llm.Image{}, errorRegistry.New(ErrNoImage)
	}

	img := resp.GeneratedImages[0].Image
	if len(img.ImageBytes) == 0 {
		return llm.Image{}, errorRegistry.New(ErrNoImage)
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return llm.Image{Data: img.ImageBytes, MIMEType: mime}, nil
}

// AspectRatio maps a WxH size onto the closest ratio Imagen accepts.
func AspectRatio(size string) string {
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return "16:9"
	}
	wi, err1 := strconv.Atoi(w)
	hi, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || wi <= 0 || hi <= 0 {
		return "16:9"
	}

	ratio := float64(wi) / float64(hi)
	candidates := []struct {
		name  string
		value float64
	}{
		{"1:1", 1}, {"4:3", 4.0 / 3}, {"3:4", 3.0 / 4}, {"16:9", 16.0 / 9}, {"9:16", 9.0 / 16},
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if abs(ratio-c.value) < abs(ratio-best.value) {
			best = c
		}
	}
	return best.name
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
