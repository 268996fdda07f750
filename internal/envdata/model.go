// Package envdata serves weather and air quality context for the dashboard
// and the AI tutor. Without API keys it runs in mock mode.
package envdata

import "time"

// WeatherData is a point-in-time weather reading for one location.
type WeatherData struct {
	Temperature float64   `json:"temperature"`
	Humidity    int       `json:"humidity"`
	Condition   string    `json:"condition"`
	WindSpeed   float64   `json:"windSpeed"`
	Location    string    `json:"location"`
	Timestamp   time.Time `json:"timestamp"`
}

// AirQualityData is a point-in-time air quality reading for one location.
type AirQualityData struct {
	AQI       int       `json:"aqi"`
	PM25      float64   `json:"pm25"`
	PM10      float64   `json:"pm10"`
	O3        float64   `json:"o3"`
	NO2       float64   `json:"no2"`
	SO2       float64   `json:"so2"`
	CO        float64   `json:"co"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// Context bundles the readings with season and time of day.
type Context struct {
	Weather    WeatherData    `json:"weather"`
	AirQuality AirQualityData `json:"airQuality"`
	Season     string         `json:"season"`
	TimeOfDay  string         `json:"timeOfDay"`
	Location   string         `json:"location"`
}

// RecyclingCenter is a nearby drop-off point.
type RecyclingCenter struct {
	CenterName        string   `json:"centerName"`
	Address           string   `json:"address"`
	Distance          float64  `json:"distance"`
	AcceptedMaterials []string `json:"acceptedMaterials"`
	Hours             string   `json:"hours"`
	Phone             string   `json:"phone"`
}
