package envdata

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/carbonctrl/carbonctrl/internal/cache"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/config"
	"go.uber.org/zap"
)

const cacheTTL = 10 * time.Minute

// Service resolves environmental readings per location. Responses are cached
// for ten minutes; upstream failures fall back to mock readings so the
// dashboard never breaks on a flaky API.
type Service interface {
	Weather(ctx context.Context, location string) (*WeatherData, error)
	AirQuality(ctx context.Context, location string) (*AirQualityData, error)
	EnvContext(ctx context.Context, location string) (*Context, error)
	RecyclingCenters(ctx context.Context, location string) ([]RecyclingCenter, error)
	Tips(envCtx *Context) []string
}

type service struct {
	log    *zap.Logger
	cfg    config.EnvDataConfig
	client Client
	clock  clock.Clock

	weatherCache    cache.Cache[string, *WeatherData]
	airQualityCache cache.Cache[string, *AirQualityData]

	mu  sync.Mutex
	rng *rand.Rand
}

func New(log *zap.Logger, cfg config.EnvDataConfig, client Client, clk clock.Clock) Service {
	return &service{
		log:             log.Named("envdata.service"),
		cfg:             cfg,
		client:          client,
		clock:           clk,
		weatherCache:    cache.NewTTLCache[string, *WeatherData](cache.WithNowFunc[string, *WeatherData](clk.Now)),
		airQualityCache: cache.NewTTLCache[string, *AirQualityData](cache.WithNowFunc[string, *AirQualityData](clk.Now)),
		rng:             rand.New(rand.NewSource(clk.Now().UnixNano())),
	}
}

func (s *service) Weather(ctx context.Context, location string) (*WeatherData, error) {
	location = normalizeLocation(location)
	if cached, ok := s.weatherCache.Get(location); ok {
		return cached, nil
	}

	weather := s.fetchWeather(ctx, location)
	s.weatherCache.Set(location, weather, cacheTTL)
	return weather, nil
}

func (s *service) AirQuality(ctx context.Context, location string) (*AirQualityData, error) {
	location = normalizeLocation(location)
	if cached, ok := s.airQualityCache.Get(location); ok {
		return cached, nil
	}

	airQuality := s.fetchAirQuality(ctx, location)
	s.airQualityCache.Set(location, airQuality, cacheTTL)
	return airQuality, nil
}

func (s *service) EnvContext(ctx context.Context, location string) (*Context, error) {
	location = normalizeLocation(location)

	weather, err := s.Weather(ctx, location)
	if err != nil {
		return nil, err
	}
	airQuality, err := s.AirQuality(ctx, location)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	return &Context{
		Weather:    *weather,
		AirQuality: *airQuality,
		Season:     seasonOf(now),
		TimeOfDay:  timeOfDay(now),
		Location:   location,
	}, nil
}

func (s *service) RecyclingCenters(ctx context.Context, location string) ([]RecyclingCenter, error) {
	location = normalizeLocation(location)
	// No upstream directory API yet, the catalog is static per location.
	return []RecyclingCenter{
		{
			CenterName:        "Green Earth Recycling Center",
			Address:           "123 Eco Street, " + location,
			Distance:          2.5,
			AcceptedMaterials: []string{"Plastic", "Paper", "Glass", "Metal", "Electronics"},
			Hours:             "Mon-Fri: 8AM-6PM, Sat: 9AM-4PM",
			Phone:             "(555) 123-4567",
		},
		{
			CenterName:        "Community Recycling Hub",
			Address:           "456 Green Avenue, " + location,
			Distance:          4.2,
			AcceptedMaterials: []string{"Plastic", "Paper", "Glass", "Compost"},
			Hours:             "Daily: 7AM-8PM",
			Phone:             "(555) 987-6543",
		},
	}, nil
}

func (s *service) Tips(envCtx *Context) []string {
	tips := []string{}

	if envCtx.Weather.Temperature > 25 {
		tips = append(tips, "It's hot today! Consider using fans instead of AC to save energy.")
	} else if envCtx.Weather.Temperature < 10 {
		tips = append(tips, "It's cold! Layer up with warm clothes before turning on the heater.")
	}
	if envCtx.Weather.Humidity > 70 {
		tips = append(tips, "High humidity detected! Open windows for natural ventilation.")
	}

	if envCtx.AirQuality.AQI > 100 {
		tips = append(tips, "Poor air quality today. Consider staying indoors or wearing a mask.")
	} else if envCtx.AirQuality.AQI < 50 {
		tips = append(tips, "Great air quality! Perfect day for outdoor activities.")
	}

	switch envCtx.TimeOfDay {
	case "morning":
		tips = append(tips, "Good morning! Start your day with energy-saving habits.")
	case "evening":
		tips = append(tips, "Evening time! Remember to turn off unnecessary lights.")
	}

	switch envCtx.Season {
	case "summer":
		tips = append(tips, "Summer season! Use natural light and ventilation when possible.")
	case "winter":
		tips = append(tips, "Winter season! Insulate your home to reduce heating costs.")
	}

	return tips
}

func (s *service) fetchWeather(ctx context.Context, location string) *WeatherData {
	if s.cfg.MockMode() {
		return s.mockWeather(location)
	}
	weather, err := s.client.FetchWeather(ctx, location)
	if err != nil {
		s.log.Warn("weather fetch failed, serving mock data",
			zap.String("location", location), zap.Error(err))
		return s.mockWeather(location)
	}
	return weather
}

func (s *service) fetchAirQuality(ctx context.Context, location string) *AirQualityData {
	if s.cfg.AirQualityAPIKey == "" {
		return s.mockAirQuality(location)
	}
	airQuality, err := s.client.FetchAirQuality(ctx, location)
	if err != nil {
		s.log.Warn("air quality fetch failed, serving mock data",
			zap.String("location", location), zap.Error(err))
		return s.mockAirQuality(location)
	}
	return airQuality
}

func (s *service) mockWeather(location string) *WeatherData {
	s.mu.Lock()
	defer s.mu.Unlock()
	conditions := []string{"Clear", "Cloudy", "Rainy", "Sunny"}
	return &WeatherData{
		Temperature: float64(s.rng.Intn(30) + 10),
		Humidity:    s.rng.Intn(40) + 40,
		Condition:   conditions[s.rng.Intn(len(conditions))],
		WindSpeed:   float64(s.rng.Intn(20) + 5),
		Location:    location,
		Timestamp:   s.clock.Now(),
	}
}

func (s *service) mockAirQuality(location string) *AirQualityData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &AirQualityData{
		AQI:       s.rng.Intn(150) + 20,
		PM25:      float64(s.rng.Intn(50) + 10),
		PM10:      float64(s.rng.Intn(80) + 20),
		O3:        float64(s.rng.Intn(100) + 20),
		NO2:       float64(s.rng.Intn(60) + 10),
		SO2:       float64(s.rng.Intn(30) + 5),
		CO:        float64(s.rng.Intn(5) + 1),
		Location:  location,
		Timestamp: s.clock.Now(),
	}
}

func normalizeLocation(location string) string {
	if location == "" {
		return "New York"
	}
	return location
}

func seasonOf(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "autumn"
	default:
		return "winter"
	}
}

func timeOfDay(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}
