package llm

// ChatOptions are per-call settings. Zero values mean "provider default".
type ChatOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
	// JSONMode asks for a single JSON object as the reply.
	JSONMode bool
}

type Option func(*ChatOptions)

// Apply returns options built from defaults and opts in order.
func Apply(defaults ChatOptions, opts ...Option) *ChatOptions {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}

func WithModel(model string) Option {
	return func(o *ChatOptions) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithTemperature(t float32) Option {
	return func(o *ChatOptions) { o.Temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(o *ChatOptions) { o.MaxTokens = n }
}

func WithJSONMode() Option {
	return func(o *ChatOptions) { o.JSONMode = true }
}
