package feed

import (
	"context"

	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/session"
	"github.com/minhnghia2k3/lumigram/internal/toggle"
	"github.com/minhnghia2k3/lumigram/pkg/config"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	func(lc fx.Lifecycle, client api.Client, sess session.Store, likes *toggle.Likes, cfg *config.Config, log logger.Logger) (*Controller, error) {
		controller, err := New(Opts{
			Client:   client,
			Session:  sess,
			Likes:    likes,
			Logger:   log,
			PageSize: cfg.API.PageSize,
		})
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				controller.Close()
				return nil
			},
		})
		return controller, nil
	},
)
