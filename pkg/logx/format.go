package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Format selects the output encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Fields is structured context attached to a record.
type Fields map[string]any

// Record is a single log line before encoding.
type Record struct {
	Level   Level
	Message string
	Fields  Fields
	Err     error
	Time    time.Time
	Caller  string
}

// Formatter encodes a record into one line of output.
type Formatter interface {
	Format(r *Record) ([]byte, error)
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorGreen  = "\033[32m"
	colorBold   = "\033[1;31m"
)

// ConsoleFormatter writes human readable, optionally colored lines:
//
//	2026-01-02T15:04:05Z INFO  article completed  article_id=... progress=100
type ConsoleFormatter struct {
	Colors     bool
	TimeFormat string
}

func (f *ConsoleFormatter) paint(color, s string) string {
	if !f.Colors {
		return s
	}
	return color + s + colorReset
}

func (f *ConsoleFormatter) Format(r *Record) ([]byte, error) {
	var b strings.Builder

	b.WriteString(f.paint(colorGray, r.Time.Format(f.TimeFormat)))
	b.WriteByte(' ')
	b.WriteString(f.paint(levelColor(r.Level), fmt.Sprintf("%-5s", r.Level)))
	b.WriteByte(' ')
	if r.Caller != "" {
		b.WriteString(f.paint(colorGray, "["+r.Caller+"] "))
	}
	b.WriteString(r.Message)

	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(f.paint(colorCyan, k))
		b.WriteByte('=')
		b.WriteString(fmt.Sprint(r.Fields[k]))
	}
	if r.Err != nil {
		b.WriteString("  ")
		b.WriteString(f.paint(colorRed, "error="+r.Err.Error()))
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func levelColor(l Level) string {
	switch l {
	case LevelTrace, LevelDebug:
		return colorGray
	case LevelInfo:
		return colorGreen
	case LevelWarn:
		return colorYellow
	case LevelError:
		return colorRed
	default:
		return colorBold
	}
}

// JSONFormatter writes one JSON object per line.
type JSONFormatter struct{}

func (JSONFormatter) Format(r *Record) ([]byte, error) {
	data := make(map[string]any, len(r.Fields)+4)
	for k, v := range r.Fields {
		data[k] = v
	}
	data["level"] = r.Level.String()
	data["message"] = r.Message
	data["timestamp"] = r.Time.Format(time.RFC3339Nano)
	if r.Caller != "" {
		data["caller"] = r.Caller
	}
	if r.Err != nil {
		data["error"] = r.Err.Error()
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
