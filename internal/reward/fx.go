package reward

import (
	"github.com/carbonctrl/carbonctrl/internal/reward/repository"
	"github.com/carbonctrl/carbonctrl/internal/reward/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reward.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
