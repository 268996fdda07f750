package game

import (
	"github.com/carbonctrl/carbonctrl/internal/game/repository"
	"github.com/carbonctrl/carbonctrl/internal/game/service"
	"go.uber.org/fx"
)

var Module = fx.Module("game.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
