package fx

import (
	"github.com/minhnghia2k3/lumigram/internal/repositories/feedarchive"
	"github.com/minhnghia2k3/lumigram/internal/repositories/storyarchive"
	"go.uber.org/fx"
)

var Module = fx.Options(
	feedarchive.Module,
	storyarchive.Module,
)
