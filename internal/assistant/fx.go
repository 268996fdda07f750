package assistant

import (
	"github.com/carbonctrl/carbonctrl/internal/config"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("assistant",
	fx.Provide(func(log *zap.Logger, cfg config.Config) Client {
		return NewClient(log, cfg.Assistant)
	}),
	fx.Provide(func(log *zap.Logger, cfg config.Config, client Client, m *metrics.Metrics) Service {
		return New(log, cfg.Assistant, client, m)
	}),
)
