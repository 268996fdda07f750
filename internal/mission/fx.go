package mission

import (
	"github.com/carbonctrl/carbonctrl/internal/mission/repository"
	"github.com/carbonctrl/carbonctrl/internal/mission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mission.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
