package localstate

import (
	"github.com/minhnghia2k3/lumigram/pkg/config"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	func(cfg *config.Config) (*Store, error) {
		return New(cfg.App.StateDir)
	},
)
