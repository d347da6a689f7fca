// Package openmeteo talks to the Open-Meteo REST endpoints: forward geocoding
// by name, current conditions, and single-date daily aggregates (forecast and
// archive). No API key is required.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/harshitmangtani02/aitf/internal/httpx"
	"github.com/harshitmangtani02/aitf/internal/nlu"
	"github.com/harshitmangtani02/aitf/internal/weather"
)

const (
	defaultGeocodeBase  = "https://geocoding-api.open-meteo.com"
	defaultForecastBase = "https://api.open-meteo.com"
	defaultArchiveBase  = "https://archive-api.open-meteo.com"

	dailyFields   = "temperature_2m_max,temperature_2m_min,relative_humidity_2m_max,precipitation_sum,wind_speed_10m_max,uv_index_max,weather_code"
	currentFields = "temperature_2m,relative_humidity_2m,precipitation,cloud_cover,wind_speed_10m,uv_index,weather_code"
)

// ErrCityNotFound is returned when forward geocoding yields no results for
// the requested place name.
var ErrCityNotFound = errors.New("openmeteo: city not found")

// Config configures the Open-Meteo client. Base URLs are overridable for
// tests; zero values select the public endpoints.
type Config struct {
	HTTPClient   *http.Client
	GeocodeBase  string
	ForecastBase string
	ArchiveBase  string
}

// Client is the Open-Meteo provider client. Safe for concurrent use.
type Client struct {
	geocodeBase  string
	forecastBase string
	archiveBase  string
	httpCfg      httpx.ClientConfig
	circuit      *gobreaker.CircuitBreaker
	now          func() time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.GeocodeBase == "" {
		cfg.GeocodeBase = defaultGeocodeBase
	}
	if cfg.ForecastBase == "" {
		cfg.ForecastBase = defaultForecastBase
	}
	if cfg.ArchiveBase == "" {
		cfg.ArchiveBase = defaultArchiveBase
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		geocodeBase:  cfg.GeocodeBase,
		forecastBase: cfg.ForecastBase,
		archiveBase:  cfg.ArchiveBase,
		httpCfg: httpx.ClientConfig{
			Client: cfg.HTTPClient,
			Backoff: httpx.BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: httpx.NewBreaker("openmeteo"),
		now:     time.Now,
	}
}

// Geocode resolves a free-text place name to coordinates. Country names are
// substituted with their capital before the lookup.
func (c *Client) Geocode(ctx context.Context, name string) (weather.Location, error) {
	place := weather.ResolvePlaceName(name)

	values := url.Values{}
	values.Set("name", place)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Timezone  string  `json:"timezone"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodeBase+"/v1/search?"+values.Encode(), &payload); err != nil {
		return weather.Location{}, err
	}
	if len(payload.Results) == 0 {
		return weather.Location{}, fmt.Errorf("%w: %s", ErrCityNotFound, name)
	}

	r := payload.Results[0]
	return weather.Location{
		City:      r.Name,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timezone:  r.Timezone,
	}, nil
}

// Fetch retrieves and normalizes the weather record matching spec.
//
// Current specs read the instantaneous endpoint. Historical and forecast
// specs read the single-date daily aggregate from the archive or forecast
// endpoint respectively; a forecast date that has slipped into the past is
// reclassified as historical before fetching. When the aggregate comes back
// null (recent historical dates often have not settled yet), the client
// substitutes current conditions re-labelled as current; if that substitute
// also fails the record is returned with nil numerics and an "unavailable"
// description rather than an error.
func (c *Client) Fetch(ctx context.Context, loc weather.Location, spec nlu.DateSpec) (weather.Record, error) {
	if math.Abs(loc.Latitude) > 90 || math.Abs(loc.Longitude) > 180 {
		return weather.Record{}, fmt.Errorf("openmeteo: coordinates out of range: %f,%f", loc.Latitude, loc.Longitude)
	}

	if spec.Type == nlu.DateForecast {
		days := nlu.DaysFromToday(spec, c.now())
		if days > nlu.ForecastHorizonDays {
			return weather.Record{}, nlu.ErrForecastLimit
		}
		if days < 0 {
			spec.Type = nlu.DateHistorical
		}
	}

	if spec.Type == nlu.DateCurrent {
		return c.fetchCurrent(ctx, loc)
	}

	rec, err := c.fetchDaily(ctx, loc, spec)
	if errors.Is(err, weather.ErrNoDailyData) {
		if cur, curErr := c.fetchCurrent(ctx, loc); curErr == nil {
			return cur, nil
		}
		return weather.Unavailable(loc, spec), nil
	}
	return rec, err
}

func (c *Client) fetchCurrent(ctx context.Context, loc weather.Location) (weather.Record, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	values.Set("current", currentFields)
	values.Set("timezone", "auto")

	var payload weather.CurrentPayload
	if err := c.getJSON(ctx, c.forecastBase+"/v1/forecast?"+values.Encode(), &payload); err != nil {
		return weather.Record{}, err
	}
	return weather.NormalizeCurrent(loc, &payload), nil
}

func (c *Client) fetchDaily(ctx context.Context, loc weather.Location, spec nlu.DateSpec) (weather.Record, error) {
	day := spec.TargetDate.Format("2006-01-02")

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	values.Set("start_date", day)
	values.Set("end_date", day)
	values.Set("daily", dailyFields)
	values.Set("timezone", "auto")

	endpoint := c.forecastBase + "/v1/forecast?"
	if spec.Type == nlu.DateHistorical {
		endpoint = c.archiveBase + "/v1/archive?"
	}

	var payload weather.DailyPayload
	if err := c.getJSON(ctx, endpoint+values.Encode(), &payload); err != nil {
		return weather.Record{}, err
	}
	return weather.NormalizeDaily(loc, &payload, spec)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	resp, err := httpx.Do(ctx, c.httpCfg, c.circuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, rawURL, nil)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}
