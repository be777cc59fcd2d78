package session

import (
	"github.com/minhnghia2k3/lumigram/pkg/config"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	fx.Annotate(
		func(cfg *config.Config, log logger.Logger) (*FileStore, error) {
			return NewFileStore(cfg.App.StateDir, log)
		},
		fx.As(new(Store)),
	),
)
