package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	quizAttempts      metric.Int64Counter
	gameScores        metric.Int64Counter
	missionCompleted  metric.Int64Counter
	coinsAwarded      metric.Int64Counter
	coinsSpent        metric.Int64Counter
	assistantRequests metric.Int64Counter
	sessionEvents     metric.Int64Counter
	rateLimitAllowed  metric.Int64Counter
	rateLimitDenied   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// NewNop returns instruments backed by the no-op provider, for tests.
func NewNop() *Metrics {
	m, err := New(Config{}, noop.NewMeterProvider())
	if err != nil {
		panic(err)
	}
	return m
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "carbonctrl"
	}
	meter := provider.Meter(name)

	quizAttempts, err := meter.Int64Counter("carbonctrl_quiz_attempts_total")
	if err != nil {
		return nil, err
	}
	gameScores, err := meter.Int64Counter("carbonctrl_game_scores_total")
	if err != nil {
		return nil, err
	}
	missionCompleted, err := meter.Int64Counter("carbonctrl_missions_completed_total")
	if err != nil {
		return nil, err
	}
	coinsAwarded, err := meter.Int64Counter("carbonctrl_eco_coins_awarded_total")
	if err != nil {
		return nil, err
	}
	coinsSpent, err := meter.Int64Counter("carbonctrl_eco_coins_spent_total")
	if err != nil {
		return nil, err
	}
	assistantRequests, err := meter.Int64Counter("carbonctrl_assistant_requests_total")
	if err != nil {
		return nil, err
	}
	sessionEvents, err := meter.Int64Counter("carbonctrl_session_events_total")
	if err != nil {
		return nil, err
	}
	rateLimitAllowed, err := meter.Int64Counter("carbonctrl_rate_limit_allowed_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("carbonctrl_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quizAttempts:      quizAttempts,
		gameScores:        gameScores,
		missionCompleted:  missionCompleted,
		coinsAwarded:      coinsAwarded,
		coinsSpent:        coinsSpent,
		assistantRequests: assistantRequests,
		sessionEvents:     sessionEvents,
		rateLimitAllowed:  rateLimitAllowed,
		rateLimitDenied:   rateLimitDenied,
	}, nil
}

// RecordQuizAttempt increments quiz attempt counts.
func (m *Metrics) RecordQuizAttempt(ctx context.Context, quizCode string, passed bool) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("quiz_code", strings.TrimSpace(quizCode)),
		attribute.Bool("passed", passed),
	)
	m.quizAttempts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordGameScore increments game score submission counts.
func (m *Metrics) RecordGameScore(ctx context.Context, gameCode string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("game_code", strings.TrimSpace(gameCode)))
	m.gameScores.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordMissionCompleted increments mission completion counts.
func (m *Metrics) RecordMissionCompleted(ctx context.Context, missionCode string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("mission_code", strings.TrimSpace(missionCode)))
	m.missionCompleted.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCoinsAwarded adds to the awarded EcoCoins counter.
func (m *Metrics) RecordCoinsAwarded(ctx context.Context, source string, amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("source", strings.TrimSpace(source)))
	m.coinsAwarded.Add(ctx, amount, metric.WithAttributes(attrs...))
}

// RecordCoinsSpent adds to the spent EcoCoins counter.
func (m *Metrics) RecordCoinsSpent(ctx context.Context, itemCode string, amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("item_code", strings.TrimSpace(itemCode)))
	m.coinsSpent.Add(ctx, amount, metric.WithAttributes(attrs...))
}

// RecordAssistantRequest increments assistant request counts.
func (m *Metrics) RecordAssistantRequest(ctx context.Context, operation, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("operation", strings.TrimSpace(operation)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.assistantRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSessionEvent counts identity lifecycle transitions.
func (m *Metrics) RecordSessionEvent(ctx context.Context, eventType, provider string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("type", strings.TrimSpace(eventType)),
		attribute.String("provider", strings.TrimSpace(provider)),
	)
	m.sessionEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitAllowed increments rate limit allow counts.
func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitAllowed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"endpoint":     {},
	"status_code":  {},
	"quiz_code":    {},
	"game_code":    {},
	"mission_code": {},
	"item_code":    {},
	"source":       {},
	"operation":    {},
	"type":         {},
	"provider":     {},
	"outcome":      {},
	"passed":       {},
	"reason":       {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
