//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package narrowphase

import "github.com/google/wire"

func InitializePipeline(cfg *Config) (*Pipeline, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
