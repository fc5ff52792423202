package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select and tune the logger built by New.
type Options struct {
	Driver string // "slog" or "zap"
	Level  string // debug, info, warn, error
	Format string // text or json
	Output io.Writer
}

// New builds a Logger from opts. Output defaults to stderr so log lines do
// not interleave with REPL output on stdout.
func New(opts Options) (Logger, error) {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	switch strings.ToLower(opts.Driver) {
	case "", "slog":
		return newSlog(w, opts)
	case "zap":
		return newZap(w, opts)
	default:
		return nil, fmt.Errorf("unknown log driver %q", opts.Driver)
	}
}

func newSlog(w io.Writer, opts Options) (Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(orDefault(opts.Level, "info"))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	ho := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, ho)
	case "json":
		h = slog.NewJSONHandler(w, ho)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	return NewSlogLogger(slog.New(h)), nil
}

func newZap(w io.Writer, opts Options) (Logger, error) {
	lvl, err := zapcore.ParseLevel(orDefault(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "text":
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case "json":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return NewZapLogger(zap.New(core)), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
