package config

import "time"

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	CORSOrigins     string        `env:"CORS_ORIGINS" envDefault:"*"`
	BodyLimitBytes  int           `env:"BODY_LIMIT_BYTES" envDefault:"1048576"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	// PublicBaseURL prefixes URLs of locally stored artifacts.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
}

func (s *ServerConfig) Sanitize() {
	if s.Port == "" {
		s.Port = "8080"
	}
	if s.BodyLimitBytes <= 0 {
		s.BodyLimitBytes = 1 << 20
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 30 * time.Second
	}
}
