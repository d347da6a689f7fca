package nlu

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDateRelativeTerms(t *testing.T) {
	today := date(2025, time.September, 24)

	cases := []struct {
		text   string
		offset int
		typ    DateType
	}{
		{"what's the weather today", 0, DateCurrent},
		{"今日の天気", 0, DateCurrent},
		{"本日の天気は？", 0, DateCurrent},
		{"tomorrow", 1, DateForecast},
		{"明日の天気", 1, DateForecast},
		{"あしたは？", 1, DateForecast},
		{"yesterday", -1, DateHistorical},
		{"昨日の天気", -1, DateHistorical},
		{"day after tomorrow", 2, DateForecast},
		{"明後日", 2, DateForecast},
		{"あさっての天気", 2, DateForecast},
		{"day before yesterday", -2, DateHistorical},
		{"一昨日の天気", -2, DateHistorical},
		{"おととい", -2, DateHistorical},
	}

	for _, tc := range cases {
		spec, err := ResolveDate(tc.text, today, nil)
		if err != nil {
			t.Fatalf("ResolveDate(%q): unexpected error: %v", tc.text, err)
		}
		if spec.Type != tc.typ {
			t.Errorf("ResolveDate(%q) type = %s, want %s", tc.text, spec.Type, tc.typ)
		}
		if tc.typ == DateCurrent {
			if !spec.TargetDate.IsZero() {
				t.Errorf("ResolveDate(%q) target = %v, want zero for current", tc.text, spec.TargetDate)
			}
			continue
		}
		want := today.AddDate(0, 0, tc.offset)
		if !spec.TargetDate.Equal(want) {
			t.Errorf("ResolveDate(%q) target = %v, want %v", tc.text, spec.TargetDate, want)
		}
	}
}

func TestResolveDateAbsoluteClassification(t *testing.T) {
	spec, err := ResolveDate("2025-03-15", date(2025, time.March, 1), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Type != DateForecast || !spec.TargetDate.Equal(date(2025, time.March, 15)) {
		t.Errorf("got %+v, want forecast 2025-03-15", spec)
	}

	spec, err = ResolveDate("2025-03-15", date(2025, time.April, 1), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Type != DateHistorical || !spec.TargetDate.Equal(date(2025, time.March, 15)) {
		t.Errorf("got %+v, want historical 2025-03-15", spec)
	}
}

func TestResolveDateMonthDayForms(t *testing.T) {
	today := date(2025, time.September, 24)
	want := date(2025, time.October, 10)

	for _, text := range []string{
		"how about October 10",
		"what about 10th October",
		"Oct 10th please",
		"10月10日はどう？",
	} {
		spec, err := ResolveDate(text, today, nil)
		if err != nil {
			t.Fatalf("ResolveDate(%q): unexpected error: %v", text, err)
		}
		if spec.Type != DateForecast || !spec.TargetDate.Equal(want) {
			t.Errorf("ResolveDate(%q) = %+v, want forecast %v", text, spec, want)
		}
	}
}

func TestResolveDateForecastHorizon(t *testing.T) {
	today := date(2025, time.March, 1)

	// 16 days out is the last allowed day.
	spec, err := ResolveDate("2025-03-17", today, nil)
	if err != nil {
		t.Fatalf("date at horizon rejected: %v", err)
	}
	if spec.Type != DateForecast {
		t.Errorf("type = %s, want forecast", spec.Type)
	}

	if _, err := ResolveDate("2025-03-18", today, nil); !errors.Is(err, ErrForecastLimit) {
		t.Errorf("date past horizon: err = %v, want ErrForecastLimit", err)
	}
	if _, err := ResolveDate("December 25th", today, nil); !errors.Is(err, ErrForecastLimit) {
		t.Errorf("far month-day: err = %v, want ErrForecastLimit", err)
	}
}

func TestResolveDateEqualTodayIsCurrent(t *testing.T) {
	today := date(2025, time.September, 24)
	spec, err := ResolveDate("2025-09-24", today, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Type != DateCurrent || !spec.TargetDate.IsZero() {
		t.Errorf("got %+v, want current with zero target", spec)
	}
}

func TestResolveDateFallbacks(t *testing.T) {
	today := date(2025, time.September, 24)
	prev := &DateSpec{TargetDate: date(2025, time.October, 2), Type: DateForecast}

	spec, err := ResolveDate("how about Paris", today, prev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec != *prev {
		t.Errorf("got %+v, want previous spec %+v", spec, *prev)
	}

	spec, err = ResolveDate("how about Paris", today, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Type != DateCurrent {
		t.Errorf("type = %s, want current default", spec.Type)
	}
}

func TestResolveDateRejectsImpossibleDates(t *testing.T) {
	today := date(2025, time.September, 24)
	spec, err := ResolveDate("February 30", today, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// An impossible date is treated as no date expression at all.
	if spec.Type != DateCurrent {
		t.Errorf("type = %s, want current", spec.Type)
	}
}

func TestDaysFromToday(t *testing.T) {
	today := date(2025, time.September, 24)
	spec := DateSpec{TargetDate: date(2025, time.September, 30), Type: DateForecast}
	if got := DaysFromToday(spec, today); got != 6 {
		t.Errorf("DaysFromToday = %d, want 6", got)
	}
	if got := DaysFromToday(DateSpec{Type: DateCurrent}, today); got != 0 {
		t.Errorf("DaysFromToday(current) = %d, want 0", got)
	}
}
