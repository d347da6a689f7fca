package nlu

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateType classifies a weather query relative to today.
type DateType string

const (
	DateCurrent    DateType = "current"
	DateHistorical DateType = "historical"
	DateForecast   DateType = "forecast"
)

// ForecastHorizonDays is the furthest day ahead the weather provider can
// answer for. Requests beyond it are rejected, not clamped.
const ForecastHorizonDays = 16

// ErrForecastLimit is returned when a resolved date lies beyond the forecast
// horizon. Callers surface a fixed message and must not retry.
var ErrForecastLimit = errors.New("nlu: forecast date beyond horizon")

// DateSpec is a resolved date expression. TargetDate is the zero value if and
// only if Type is DateCurrent.
type DateSpec struct {
	TargetDate time.Time `json:"targetDate,omitempty"`
	Type       DateType  `json:"dateType"`
}

// relativeTerm maps a literal word to a day offset from today. Two-day terms
// are listed first because the one-day terms are substrings of some of them
// (一昨日 contains 昨日).
type relativeTerm struct {
	re     *regexp.Regexp // English, word-bounded
	ja     []string       // Japanese, matched by substring
	offset int
}

var relativeTerms = []relativeTerm{
	{regexp.MustCompile(`(?i)\bday\s+after\s+tomorrow\b`), []string{"明後日", "あさって"}, 2},
	{regexp.MustCompile(`(?i)\bday\s+before\s+yesterday\b`), []string{"一昨日", "おととい"}, -2},
	{regexp.MustCompile(`(?i)\btomorrow\b`), []string{"明日", "あした", "あす"}, 1},
	{regexp.MustCompile(`(?i)\byesterday\b`), []string{"昨日", "きのう"}, -1},
	{regexp.MustCompile(`(?i)\b(?:today|now|current(?:ly)?)\b`), []string{"今日", "本日", "現在"}, 0},
}

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	// "October 10", "Oct 10th", "December 25th"
	monthDayRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	// "10th October", "25 December", "10th of October"
	dayMonthRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b`)
	// "10月10日"
	jaMonthDayRe = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日`)
)

// ResolveDate turns a free-text date expression into a DateSpec.
//
// Relative terms (today, tomorrow, 明後日, ...) resolve against today.
// Absolute day-month expressions resolve in today's calendar year;
// classification follows from comparing the resolved date with today.
// When the text carries no date expression at all, prev is returned if
// supplied, otherwise the default current/now spec.
//
// Both English and Japanese term tables are always consulted, so mixed-language
// utterances resolve the same way regardless of the request's language tag.
func ResolveDate(text string, today time.Time, prev *DateSpec) (DateSpec, error) {
	base := dateOnly(today)

	for _, term := range relativeTerms {
		if term.re.MatchString(text) || containsAny(text, term.ja) {
			return classify(base.AddDate(0, 0, term.offset), base)
		}
	}

	if target, ok := parseAbsoluteDate(text, base); ok {
		return classify(target, base)
	}

	if prev != nil {
		return *prev, nil
	}
	return DateSpec{Type: DateCurrent}, nil
}

// HasDateExpression reports whether text contains any recognizable relative or
// absolute date expression. Used by the query classifier to treat bare date
// follow-ups ("how about tomorrow?") as weather queries.
func HasDateExpression(text string) bool {
	for _, term := range relativeTerms {
		if term.re.MatchString(text) || containsAny(text, term.ja) {
			return true
		}
	}
	_, ok := parseAbsoluteDate(text, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	return ok
}

// DaysFromToday returns the whole-day distance between spec's target date and
// today. A current spec is always zero days out.
func DaysFromToday(spec DateSpec, today time.Time) int {
	if spec.Type == DateCurrent || spec.TargetDate.IsZero() {
		return 0
	}
	return int(dateOnly(spec.TargetDate).Sub(dateOnly(today)).Hours() / 24)
}

func parseAbsoluteDate(text string, base time.Time) (time.Time, bool) {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return makeDate(year, month, day)
	}
	if m := jaMonthDayRe.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return makeDate(base.Year(), month, day)
	}
	if m := monthDayRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[2])
		return makeDate(base.Year(), int(monthsByName[strings.ToLower(m[1])]), day)
	}
	if m := dayMonthRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		return makeDate(base.Year(), int(monthsByName[strings.ToLower(m[2])]), day)
	}
	return time.Time{}, false
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (Feb 30 -> Mar 2); reject those.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func classify(target, today time.Time) (DateSpec, error) {
	days := int(target.Sub(today).Hours() / 24)
	switch {
	case days == 0:
		// A date equal to today is a current-conditions query.
		return DateSpec{Type: DateCurrent}, nil
	case days > ForecastHorizonDays:
		return DateSpec{}, ErrForecastLimit
	case days > 0:
		return DateSpec{TargetDate: target, Type: DateForecast}, nil
	default:
		return DateSpec{TargetDate: target, Type: DateHistorical}, nil
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
