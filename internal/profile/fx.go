package profile

import (
	"github.com/carbonctrl/carbonctrl/internal/profile/repository"
	"github.com/carbonctrl/carbonctrl/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
