package envdata

import (
	"context"
	"testing"
	"time"

	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/config"
	"go.uber.org/zap"
)

type stubClient struct {
	weatherCalls    int
	airQualityCalls int
	weather         *WeatherData
	airQuality      *AirQualityData
	err             error
}

func (s *stubClient) FetchWeather(ctx context.Context, location string) (*WeatherData, error) {
	s.weatherCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.weather, nil
}

func (s *stubClient) FetchAirQuality(ctx context.Context, location string) (*AirQualityData, error) {
	s.airQualityCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.airQuality, nil
}

func TestWeatherMockModeServesRangedValues(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC))
	svc := New(zap.NewNop(), config.EnvDataConfig{}, &stubClient{}, fake)

	weather, err := svc.Weather(context.Background(), "Jakarta")
	if err != nil {
		t.Fatalf("failed to get weather: %v", err)
	}
	if weather.Temperature < 10 || weather.Temperature > 40 {
		t.Fatalf("temperature out of mock range: %v", weather.Temperature)
	}
	if weather.Humidity < 40 || weather.Humidity > 80 {
		t.Fatalf("humidity out of mock range: %v", weather.Humidity)
	}
	if weather.Location != "Jakarta" {
		t.Fatalf("unexpected location: %q", weather.Location)
	}
}

func TestWeatherCachesForTenMinutes(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC))
	stub := &stubClient{weather: &WeatherData{Temperature: 21, Location: "Oslo"}}
	svc := New(zap.NewNop(), config.EnvDataConfig{WeatherAPIKey: "key", WeatherBaseURL: "http://example.test"}, stub, fake)

	for i := 0; i < 3; i++ {
		if _, err := svc.Weather(context.Background(), "Oslo"); err != nil {
			t.Fatalf("failed to get weather: %v", err)
		}
	}
	if stub.weatherCalls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", stub.weatherCalls)
	}

	fake.Advance(11 * time.Minute)
	if _, err := svc.Weather(context.Background(), "Oslo"); err != nil {
		t.Fatalf("failed to get weather: %v", err)
	}
	if stub.weatherCalls != 2 {
		t.Fatalf("expected cache refresh after TTL, got %d calls", stub.weatherCalls)
	}
}

func TestWeatherFallsBackToMockOnUpstreamError(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC))
	stub := &stubClient{err: context.DeadlineExceeded}
	svc := New(zap.NewNop(), config.EnvDataConfig{WeatherAPIKey: "key", WeatherBaseURL: "http://example.test"}, stub, fake)

	weather, err := svc.Weather(context.Background(), "Oslo")
	if err != nil {
		t.Fatalf("expected mock fallback, got error: %v", err)
	}
	if weather.Location != "Oslo" {
		t.Fatalf("unexpected location: %q", weather.Location)
	}
}

func TestEnvContextSeasonAndTimeOfDay(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC))
	svc := New(zap.NewNop(), config.EnvDataConfig{}, &stubClient{}, fake)

	envCtx, err := svc.EnvContext(context.Background(), "Berlin")
	if err != nil {
		t.Fatalf("failed to get context: %v", err)
	}
	if envCtx.Season != "winter" {
		t.Fatalf("expected winter, got %q", envCtx.Season)
	}
	if envCtx.TimeOfDay != "evening" {
		t.Fatalf("expected evening, got %q", envCtx.TimeOfDay)
	}
}

func TestEnvContextDefaultsLocation(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC))
	svc := New(zap.NewNop(), config.EnvDataConfig{}, &stubClient{}, fake)

	envCtx, err := svc.EnvContext(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to get context: %v", err)
	}
	if envCtx.Location != "New York" {
		t.Fatalf("expected default location, got %q", envCtx.Location)
	}
}

func TestTips(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC))
	svc := New(zap.NewNop(), config.EnvDataConfig{}, &stubClient{}, fake)

	tips := svc.Tips(&Context{
		Weather:    WeatherData{Temperature: 30, Humidity: 75},
		AirQuality: AirQualityData{AQI: 120},
		Season:     "summer",
		TimeOfDay:  "morning",
	})
	if len(tips) != 5 {
		t.Fatalf("expected 5 tips, got %d: %v", len(tips), tips)
	}
}
