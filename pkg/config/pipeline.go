package config

import "time"

const (
	ResearchStatic = "static"
	ResearchLLM    = "llm"
)

type PipelineConfig struct {
	Workers         int           `env:"WORKERS" envDefault:"4"`
	QueueSize       int           `env:"QUEUE_SIZE" envDefault:"64"`
	StageTimeout    time.Duration `env:"STAGE_TIMEOUT" envDefault:"5m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	ResearchMode    string        `env:"RESEARCH_MODE" envDefault:"static"`
	// PDFFontPath is a TTF font for PDF output. Without it only Latin-1 renders.
	PDFFontPath string `env:"PDF_FONT_PATH"`
	// FailStaleOnStart marks jobs left mid-pipeline by a previous process as failed.
	FailStaleOnStart bool `env:"FAIL_STALE_ON_START" envDefault:"true"`
}

func (p *PipelineConfig) Sanitize() {
	if p.Workers <= 0 {
		p.Workers = 4
	}
	if p.QueueSize < 0 {
		p.QueueSize = 64
	}
	if p.StageTimeout <= 0 {
		p.StageTimeout = 5 * time.Minute
	}
	if p.ShutdownTimeout <= 0 {
		p.ShutdownTimeout = 30 * time.Second
	}
	if p.ResearchMode != ResearchLLM {
		p.ResearchMode = ResearchStatic
	}
}
