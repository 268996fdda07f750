package auth

import (
	"context"

	authconfig "github.com/carbonctrl/carbonctrl/internal/auth/config"
	"github.com/carbonctrl/carbonctrl/internal/auth/events"
	"github.com/carbonctrl/carbonctrl/internal/auth/oauth"
	"github.com/carbonctrl/carbonctrl/internal/auth/repository"
	"github.com/carbonctrl/carbonctrl/internal/auth/service"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("auth.service",
	fx.Provide(events.NewHub),
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(oauth.NewService),
	fx.Provide(authconfig.ParseAuthProvidersFromEnv),
	fx.Provide(authconfig.BuildAuthProviderRegistry),
	fx.Invoke(ensureAuthProviderRegistry),
	fx.Invoke(runSessionEventRecorder),
)

func ensureAuthProviderRegistry(_ authconfig.AuthProviderRegistry) {}

// runSessionEventRecorder drains identity events into logs and metrics
// for the lifetime of the app. Closing the hub on shutdown ends the
// drain loop.
func runSessionEventRecorder(lc fx.Lifecycle, hub *events.Hub, log *zap.Logger, m *metrics.Metrics) error {
	sub, _, err := hub.Subscribe()
	if err != nil {
		return err
	}
	recorder := log.Named("auth.events")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range sub.Events() {
			m.RecordSessionEvent(context.Background(), event.Type, event.Provider)
			recorder.Info("session event",
				zap.String("type", event.Type),
				zap.String("user_id", event.UserID),
				zap.String("provider", event.Provider),
				zap.Bool("new_user", event.NewUser),
			)
		}
	}()

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.Close()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	return nil
}
