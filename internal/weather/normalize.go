package weather

import (
	"errors"
	"math"

	"github.com/harshitmangtani02/aitf/internal/nlu"
)

// ErrNoDailyData is returned when a daily-aggregate payload carries no usable
// values for the requested date. The archive endpoint returns null aggregates
// for dates too recent to have settled; the client treats this as a signal to
// fall back to current conditions, not as a hard failure.
var ErrNoDailyData = errors.New("weather: no daily data for requested date")

// NormalizeCurrent maps an instantaneous payload onto a Record. Pure: the only
// timestamp in the output comes from the payload itself.
func NormalizeCurrent(loc Location, payload *CurrentPayload) Record {
	cur := payload.Current
	rec := Record{
		City:          loc.City,
		Country:       loc.Country,
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		Timezone:      payload.Timezone,
		DateType:      nlu.DateCurrent,
		Temperature:   roundPtr(cur.Temperature),
		Humidity:      cur.Humidity,
		WindSpeed:     cur.WindSpeed,
		Precipitation: cur.Precipitation,
		CloudCover:    cur.CloudCover,
		UVIndex:       cur.UVIndex,
		WeatherCode:   cur.WeatherCode,
		Description:   DescribeCode(cur.WeatherCode),
		Timestamp:     cur.Time,
	}
	return rec
}

// NormalizeDaily maps a single-date daily-aggregate payload onto a Record.
// The representative temperature is the rounded mean of the day's max and min;
// both extremes are preserved separately. Returns ErrNoDailyData when the
// payload has no day entry or both temperature aggregates are null.
func NormalizeDaily(loc Location, payload *DailyPayload, spec nlu.DateSpec) (Record, error) {
	daily := payload.Daily
	if len(daily.Time) == 0 {
		return Record{}, ErrNoDailyData
	}

	const day = 0 // single-date query
	tempMax := at(daily.TemperatureMax, day)
	tempMin := at(daily.TemperatureMin, day)
	if tempMax == nil && tempMin == nil {
		return Record{}, ErrNoDailyData
	}

	rec := Record{
		City:           loc.City,
		Country:        loc.Country,
		Latitude:       loc.Latitude,
		Longitude:      loc.Longitude,
		Timezone:       payload.Timezone,
		DateType:       spec.Type,
		TargetDate:     spec.TargetDate.Format("2006-01-02"),
		TemperatureMax: roundPtr(tempMax),
		TemperatureMin: roundPtr(tempMin),
		Humidity:       at(daily.HumidityMax, day),
		WindSpeed:      at(daily.WindSpeedMax, day),
		Precipitation:  at(daily.Precipitation, day),
		UVIndex:        at(daily.UVIndexMax, day),
		Timestamp:      daily.Time[day],
	}
	if tempMax != nil && tempMin != nil {
		avg := int(math.Round((*tempMax + *tempMin) / 2))
		rec.Temperature = &avg
	}
	if len(daily.WeatherCode) > day {
		rec.WeatherCode = daily.WeatherCode[day]
	}
	rec.Description = DescribeCode(rec.WeatherCode)
	return rec, nil
}

// Unavailable builds the degenerate record returned when both the requested
// source and the current-conditions fallback failed: numeric fields stay nil
// and the description flags the gap. Missing data never raises on its own.
func Unavailable(loc Location, spec nlu.DateSpec) Record {
	rec := Record{
		City:        loc.City,
		Country:     loc.Country,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		Timezone:    loc.Timezone,
		DateType:    spec.Type,
		Description: DescriptionUnavailable,
	}
	if !spec.TargetDate.IsZero() {
		rec.TargetDate = spec.TargetDate.Format("2006-01-02")
	}
	return rec
}

func roundPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	r := int(math.Round(*v))
	return &r
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}
