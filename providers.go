package narrowphase

import (
	"github.com/google/wire"
	"go.uber.org/zap"
)

// ProviderSet builds a Pipeline and its logger from a Config.
var ProviderSet = wire.NewSet(ProvideLogger, ProvidePipeline)

func ProvideLogger(cfg *Config) (*zap.Logger, error) {
	return NewLogger(cfg.LogLevel)
}

func ProvidePipeline(cfg *Config, logger *zap.Logger) (*Pipeline, error) {
	return cfg.Build(logger)
}
