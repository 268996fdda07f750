package envdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carbonctrl/carbonctrl/internal/config"
	obstracing "github.com/carbonctrl/carbonctrl/internal/observability/tracing"
)

const airQualityBaseURL = "https://api.waqi.info/feed"

// Client fetches readings from the upstream weather and air quality APIs.
type Client interface {
	FetchWeather(ctx context.Context, location string) (*WeatherData, error)
	FetchAirQuality(ctx context.Context, location string) (*AirQualityData, error)
}

type httpClient struct {
	cfg        config.EnvDataConfig
	httpClient *http.Client
}

// NewClient builds the upstream API client.
func NewClient(cfg config.EnvDataConfig) Client {
	return &httpClient{
		cfg:        cfg,
		httpClient: obstracing.WrapHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	}
}

func (c *httpClient) FetchWeather(ctx context.Context, location string) (*WeatherData, error) {
	endpoint := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		strings.TrimSuffix(c.cfg.WeatherBaseURL, "/"), url.QueryEscape(location), url.QueryEscape(c.cfg.WeatherAPIKey))

	var payload struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Name string `json:"name"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}

	condition := ""
	if len(payload.Weather) > 0 {
		condition = payload.Weather[0].Main
	}
	return &WeatherData{
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		Condition:   condition,
		WindSpeed:   payload.Wind.Speed,
		Location:    payload.Name,
		Timestamp:   time.Now().UTC(),
	}, nil
}

func (c *httpClient) FetchAirQuality(ctx context.Context, location string) (*AirQualityData, error) {
	endpoint := fmt.Sprintf("%s/%s/?token=%s",
		airQualityBaseURL, url.PathEscape(location), url.QueryEscape(c.cfg.AirQualityAPIKey))

	var payload struct {
		Data struct {
			AQI  int `json:"aqi"`
			IAQI struct {
				PM25 struct {
					V float64 `json:"v"`
				} `json:"pm25"`
				PM10 struct {
					V float64 `json:"v"`
				} `json:"pm10"`
				O3 struct {
					V float64 `json:"v"`
				} `json:"o3"`
				NO2 struct {
					V float64 `json:"v"`
				} `json:"no2"`
				SO2 struct {
					V float64 `json:"v"`
				} `json:"so2"`
				CO struct {
					V float64 `json:"v"`
				} `json:"co"`
			} `json:"iaqi"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch air quality: %w", err)
	}

	return &AirQualityData{
		AQI:       payload.Data.AQI,
		PM25:      payload.Data.IAQI.PM25.V,
		PM10:      payload.Data.IAQI.PM10.V,
		O3:        payload.Data.IAQI.O3.V,
		NO2:       payload.Data.IAQI.NO2.V,
		SO2:       payload.Data.IAQI.SO2.V,
		CO:        payload.Data.IAQI.CO.V,
		Location:  payload.Data.City.Name,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (c *httpClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("request status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
