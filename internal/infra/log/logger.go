package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level   string // debug, info, warn, error
	Format  string // console or json
	Service string
}

// New builds the process logger. An unknown level falls back to info.
func New(o Options) (*zap.Logger, error) {
	var cfg zap.Config
	switch o.Format {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	default:
		return nil, fmt.Errorf("unknown log format %q", o.Format)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)

	if o.Level != "" {
		if err := cfg.Level.UnmarshalText([]byte(o.Level)); err != nil {
			fmt.Printf("bad LOG_LEVEL=%s, fallback to info\n", o.Level)
			cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
	if o.Service != "" {
		opts = append(opts, zap.Fields(zap.String("service", o.Service)))
	}
	return cfg.Build(opts...)
}

func Must(o Options) *zap.Logger {
	l, err := New(o)
	if err != nil {
		panic(err)
	}
	return l
}
