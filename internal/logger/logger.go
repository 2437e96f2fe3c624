package logger

import (
	"fmt"

	"campus-merch-store/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Development environments start from
// zap's development config (console, debug, caller info), others from the
// production config. A set LOG_LEVEL or LOG_FORMAT overrides either.
func New(env config.Environment, cfg config.Log) (*zap.Logger, error) {
	var zcfg zap.Config
	if env.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.DisableStacktrace = true
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	switch cfg.Format {
	case "":
	case "console", "json":
		zcfg.Encoding = cfg.Format
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zcfg.Build()
}
