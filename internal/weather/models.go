package weather

import (
	"github.com/harshitmangtani02/aitf/internal/nlu"
)

// Location is a geocoded place as returned by the forward-geocoding endpoint.
// Resolved once per request, never cached across requests.
type Location struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone,omitempty"`
}

// Record is the normalized weather view handed to the response composer and
// returned by the JSON endpoint. Numeric fields are pointers because daily
// aggregates for very recent dates are commonly null upstream; a missing value
// is data, not an error.
type Record struct {
	City      string  `json:"city"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone,omitempty"`

	DateType   nlu.DateType `json:"dateType"`
	TargetDate string       `json:"targetDate,omitempty"` // YYYY-MM-DD, empty for current

	Temperature    *int     `json:"temperature"` // rounded °C
	TemperatureMax *int     `json:"temperatureMax,omitempty"`
	TemperatureMin *int     `json:"temperatureMin,omitempty"`
	Humidity       *float64 `json:"humidity"`
	WindSpeed      *float64 `json:"windSpeed"`
	Precipitation  *float64 `json:"precipitation"`
	CloudCover     *float64 `json:"cloudCover,omitempty"` // current conditions only
	UVIndex        *float64 `json:"uvIndex"`
	WeatherCode    *int     `json:"weatherCode"`
	Description    string   `json:"description"`
	Timestamp      string   `json:"timestamp,omitempty"`
}

// CurrentPayload mirrors the instantaneous block of an Open-Meteo current
// conditions response.
type CurrentPayload struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Time          string   `json:"time"`
		Temperature   *float64 `json:"temperature_2m"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		Precipitation *float64 `json:"precipitation"`
		CloudCover    *float64 `json:"cloud_cover"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
		UVIndex       *float64 `json:"uv_index"`
		WeatherCode   *int     `json:"weather_code"`
	} `json:"current"`
}

// DailyPayload mirrors the per-day aggregate block shared by the forecast and
// archive endpoints. Arrays hold one entry per requested day; single-date
// queries use index 0.
type DailyPayload struct {
	Timezone string `json:"timezone"`
	Daily    struct {
		Time           []string   `json:"time"`
		TemperatureMax []*float64 `json:"temperature_2m_max"`
		TemperatureMin []*float64 `json:"temperature_2m_min"`
		HumidityMax    []*float64 `json:"relative_humidity_2m_max"`
		Precipitation  []*float64 `json:"precipitation_sum"`
		WindSpeedMax   []*float64 `json:"wind_speed_10m_max"`
		UVIndexMax     []*float64 `json:"uv_index_max"`
		WeatherCode    []*int     `json:"weather_code"`
	} `json:"daily"`
}
