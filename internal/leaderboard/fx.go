package leaderboard

import "go.uber.org/fx"

var Module = fx.Module("leaderboard.service",
	fx.Provide(New),
)
