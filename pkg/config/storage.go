package config

import "time"

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type StorageConfig struct {
	Mode       string        `env:"MODE" envDefault:"local"`
	UploadDir  string        `env:"UPLOAD_DIR" envDefault:"./uploads"`
	Bucket     string        `env:"BUCKET"`
	Region     string        `env:"REGION" envDefault:"us-east-1"`
	Prefix     string        `env:"PREFIX"`
	PresignTTL time.Duration `env:"PRESIGN_TTL" envDefault:"24h"`
}

func (s *StorageConfig) Sanitize() {
	if s.Mode != StorageS3 {
		s.Mode = StorageLocal
	}
	if s.PresignTTL <= 0 {
		s.PresignTTL = 24 * time.Hour
	}
}

type RateLimitConfig struct {
	Enabled           bool   `env:"ENABLED" envDefault:"true"`
	RequestsPerMinute int    `env:"RPM" envDefault:"10"`
	Burst             int    `env:"BURST" envDefault:"3"`
	Backend           string `env:"BACKEND" envDefault:"local"`
}

func (r *RateLimitConfig) Sanitize() {
	if r.RequestsPerMinute <= 0 {
		r.RequestsPerMinute = 10
	}
	if r.Burst <= 0 {
		r.Burst = 1
	}
	if r.Backend != "redis" {
		r.Backend = "local"
	}
}

type NotifyConfig struct {
	Provider    string   `env:"PROVIDER" envDefault:"console"`
	FromAddress string   `env:"FROM_ADDRESS" envDefault:"noreply@aiwriter.local"`
	FromName    string   `env:"FROM_NAME" envDefault:"AI Writer"`
	Recipients  []string `env:"RECIPIENTS" envSeparator:","`
	AWSRegion   string   `env:"AWS_REGION" envDefault:"us-east-1"`
}

type AdminConfig struct {
	// JWTSecret empty disables admin routes.
	JWTSecret string `env:"JWT_SECRET"`
	Issuer    string `env:"JWT_ISSUER" envDefault:"aiwriter"`
}
