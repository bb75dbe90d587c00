package llm

import "context"

// Image is a generated picture. Providers fill either Data or URL.
type Image struct {
	Data     []byte
	MIMEType string
	URL      string
}

type ImageOptions struct {
	Model string
	// Size is a WxH hint such as "1536x1024"; providers map it to the
	// closest size or aspect ratio they support.
	Size string
}

type ImageOption func(*ImageOptions)

func WithImageModel(model string) ImageOption {
	return func(o *ImageOptions) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithImageSize(size string) ImageOption {
	return func(o *ImageOptions) { o.Size = size }
}

// ImageGenerator turns a prompt into one image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, opts ...ImageOption) (Image, error)
}
