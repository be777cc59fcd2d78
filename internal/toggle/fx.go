package toggle

import (
	"go.uber.org/fx"
)

var Module = fx.Provide(
	NewLikes,
	NewSaves,
	NewFavorites,
	NewFollows,
)
