package weather

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/harshitmangtani02/aitf/internal/nlu"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func testLocation() Location {
	return Location{
		City:      "Tokyo",
		Country:   "Japan",
		Latitude:  35.6762,
		Longitude: 139.6503,
		Timezone:  "Asia/Tokyo",
	}
}

func dailyPayload() *DailyPayload {
	p := &DailyPayload{Timezone: "Asia/Tokyo"}
	p.Daily.Time = []string{"2025-09-25"}
	p.Daily.TemperatureMax = []*float64{fptr(20)}
	p.Daily.TemperatureMin = []*float64{fptr(10)}
	p.Daily.HumidityMax = []*float64{fptr(65)}
	p.Daily.Precipitation = []*float64{fptr(1.2)}
	p.Daily.WindSpeedMax = []*float64{fptr(14.5)}
	p.Daily.UVIndexMax = []*float64{fptr(6)}
	p.Daily.WeatherCode = []*int{iptr(61)}
	return p
}

func forecastSpec() nlu.DateSpec {
	return nlu.DateSpec{
		TargetDate: time.Date(2025, time.September, 25, 0, 0, 0, 0, time.UTC),
		Type:       nlu.DateForecast,
	}
}

func TestNormalizeDailyAveragesTemperature(t *testing.T) {
	rec, err := NormalizeDaily(testLocation(), dailyPayload(), forecastSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Temperature == nil || *rec.Temperature != 15 {
		t.Errorf("Temperature = %v, want 15 (mean of 20 and 10)", rec.Temperature)
	}
	if rec.TemperatureMax == nil || *rec.TemperatureMax != 20 {
		t.Errorf("TemperatureMax = %v, want 20", rec.TemperatureMax)
	}
	if rec.TemperatureMin == nil || *rec.TemperatureMin != 10 {
		t.Errorf("TemperatureMin = %v, want 10", rec.TemperatureMin)
	}
	if rec.DateType != nlu.DateForecast || rec.TargetDate != "2025-09-25" {
		t.Errorf("date fields: %+v", rec)
	}
	if rec.Description != "Slight rain" {
		t.Errorf("Description = %q, want Slight rain (code 61)", rec.Description)
	}
	if rec.CloudCover != nil {
		t.Errorf("CloudCover should be absent for daily aggregates")
	}
}

func TestNormalizeDailyDeterministic(t *testing.T) {
	// Two independent calls on the same payload must agree exactly: the
	// normalizer reads no clock and keeps no state.
	a, err := NormalizeDaily(testLocation(), dailyPayload(), forecastSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NormalizeDaily(testLocation(), dailyPayload(), forecastSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("normalization not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestNormalizeDailyNullAggregates(t *testing.T) {
	p := dailyPayload()
	p.Daily.TemperatureMax = []*float64{nil}
	p.Daily.TemperatureMin = []*float64{nil}

	if _, err := NormalizeDaily(testLocation(), p, forecastSpec()); !errors.Is(err, ErrNoDailyData) {
		t.Errorf("err = %v, want ErrNoDailyData", err)
	}

	empty := &DailyPayload{}
	if _, err := NormalizeDaily(testLocation(), empty, forecastSpec()); !errors.Is(err, ErrNoDailyData) {
		t.Errorf("empty payload: err = %v, want ErrNoDailyData", err)
	}
}

func TestNormalizeDailyPartialTemperature(t *testing.T) {
	// Only one extreme present: no representative average, but the record is
	// still produced with whatever survived.
	p := dailyPayload()
	p.Daily.TemperatureMin = []*float64{nil}

	rec, err := NormalizeDaily(testLocation(), p, forecastSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Temperature != nil {
		t.Errorf("Temperature = %v, want nil with one extreme missing", rec.Temperature)
	}
	if rec.TemperatureMax == nil || *rec.TemperatureMax != 20 {
		t.Errorf("TemperatureMax = %v, want 20", rec.TemperatureMax)
	}
}

func TestNormalizeCurrent(t *testing.T) {
	p := &CurrentPayload{Timezone: "Asia/Tokyo"}
	p.Current.Time = "2025-09-24T12:00"
	p.Current.Temperature = fptr(22.6)
	p.Current.Humidity = fptr(70)
	p.Current.WindSpeed = fptr(9.3)
	p.Current.Precipitation = fptr(0)
	p.Current.CloudCover = fptr(40)
	p.Current.UVIndex = fptr(5)
	p.Current.WeatherCode = iptr(2)

	rec := NormalizeCurrent(testLocation(), p)
	if rec.DateType != nlu.DateCurrent || rec.TargetDate != "" {
		t.Errorf("date fields: %+v", rec)
	}
	if rec.Temperature == nil || *rec.Temperature != 23 {
		t.Errorf("Temperature = %v, want 23 (rounded)", rec.Temperature)
	}
	if rec.Description != "Partly cloudy" {
		t.Errorf("Description = %q, want Partly cloudy", rec.Description)
	}
	if rec.CloudCover == nil || *rec.CloudCover != 40 {
		t.Errorf("CloudCover = %v, want 40", rec.CloudCover)
	}
}

func TestDescribeCode(t *testing.T) {
	if got := DescribeCode(iptr(95)); got != "Thunderstorm" {
		t.Errorf("DescribeCode(95) = %q", got)
	}
	if got := DescribeCode(iptr(42)); got != "Unknown" {
		t.Errorf("DescribeCode(42) = %q, want Unknown", got)
	}
	if got := DescribeCode(nil); got != "Unknown" {
		t.Errorf("DescribeCode(nil) = %q, want Unknown", got)
	}
}

func TestResolvePlaceName(t *testing.T) {
	if got := ResolvePlaceName("Japan"); got != "Tokyo" {
		t.Errorf("ResolvePlaceName(Japan) = %q, want Tokyo", got)
	}
	if got := ResolvePlaceName("  france "); got != "Paris" {
		t.Errorf("ResolvePlaceName(france) = %q, want Paris", got)
	}
	if got := ResolvePlaceName("Kyoto"); got != "Kyoto" {
		t.Errorf("ResolvePlaceName(Kyoto) = %q, want unchanged", got)
	}
}

func TestUnavailableRecord(t *testing.T) {
	rec := Unavailable(testLocation(), forecastSpec())
	if rec.Description != DescriptionUnavailable {
		t.Errorf("Description = %q", rec.Description)
	}
	if rec.Temperature != nil || rec.Humidity != nil || rec.WeatherCode != nil {
		t.Errorf("numeric fields should be nil: %+v", rec)
	}
	if rec.TargetDate != "2025-09-25" {
		t.Errorf("TargetDate = %q", rec.TargetDate)
	}
}
