package envdata

import (
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("envdata",
	fx.Provide(func(cfg config.Config) Client {
		return NewClient(cfg.EnvData)
	}),
	fx.Provide(func(log *zap.Logger, cfg config.Config, client Client, clk clock.Clock) Service {
		return New(log, cfg.EnvData, client, clk)
	}),
)
