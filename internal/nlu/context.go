package nlu

import (
	"regexp"
	"strings"
	"time"
)

// Turn is one prior message in the conversation, resent whole by the caller on
// every request.
type Turn struct {
	Role string // "user" or "assistant"
	Text string
}

// Location extraction is heuristic and best-effort: the patterns below can
// match unrelated capitalized phrases, and that is an accepted risk. The only
// requirement is deterministic matching given the same input.
var (
	// "weather in Tokyo", "forecast for New York", "at San Francisco"
	prepositionRe = regexp.MustCompile(`\b(?:[Ii]n|[Aa]t|[Ff]or)\s+((?:[A-Z][a-zA-Z'.-]*)(?:\s+[A-Z][a-zA-Z'.-]*)*)`)
	// "Tokyo weather", "New Delhi weather"
	leadingCityRe = regexp.MustCompile(`^\s*((?:[A-Z][a-zA-Z'.-]*)(?:\s+[A-Z][a-zA-Z'.-]*)*)\s+[Ww]eather\b`)
	// assistant reply headings like "Weather Summary for Kyoto"
	headingRe = regexp.MustCompile(`(?i)weather\s+summary\s+for\s+([A-Z][a-zA-Z'.-]*(?:\s+[A-Z][a-zA-Z'.-]*)*)`)
	// "東京の天気". Hiragana is excluded from the capture so particles and
	// leading date words (明日の...) are not swallowed into the city name.
	jaPossessiveRe = regexp.MustCompile(`([\p{Han}\p{Katakana}ー]+)の天気`)
)

// captured phrases that are date words or domain nouns, not places
var locationStopwords = map[string]struct{}{
	"today": {}, "tomorrow": {}, "yesterday": {}, "now": {},
	"weather": {}, "the": {}, "what": {}, "when": {}, "how": {},
}

// ExtractLocation pulls a place name out of free text, or returns "" when no
// pattern matches.
func ExtractLocation(text string) string {
	for _, re := range []*regexp.Regexp{jaPossessiveRe, prepositionRe, leadingCityRe, headingRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if city := cleanLocation(m[1]); city != "" {
				return city
			}
		}
	}
	return ""
}

func cleanLocation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, stop := locationStopwords[strings.ToLower(s)]; stop {
		return ""
	}
	// "for Tomorrow" style captures: first word is a date word, not a place.
	first := strings.ToLower(strings.Fields(s)[0])
	if _, stop := locationStopwords[first]; stop {
		return ""
	}
	return s
}

// ResolveLocation decides which city the user means.
//
// Priority: a location phrase in the current utterance, then the session's
// last known city, then a newest-first scan of prior turns. Returns "" when
// nothing matches; the caller must ask the user to disambiguate.
func ResolveLocation(utterance string, history []Turn, lastCity string) string {
	if city := ExtractLocation(utterance); city != "" {
		return city
	}
	if lastCity != "" {
		return lastCity
	}
	for i := len(history) - 1; i >= 0; i-- {
		if city := ExtractLocation(history[i].Text); city != "" {
			return city
		}
	}
	return ""
}

// ResolveDateContext decides which date the user means, mirroring
// ResolveDate's fallback chain and additionally scanning prior turns for
// embedded ISO dates or relative-date words before falling back to the
// session's previous spec.
//
// Returns nil when nothing resolves; the caller defaults to current
// conditions. ErrForecastLimit from the current utterance is propagated;
// out-of-horizon dates found in old turns are skipped instead.
func ResolveDateContext(utterance string, history []Turn, prev *DateSpec, today time.Time) (*DateSpec, error) {
	if HasDateExpression(utterance) {
		spec, err := ResolveDate(utterance, today, nil)
		if err != nil {
			return nil, err
		}
		return &spec, nil
	}

	for i := len(history) - 1; i >= 0; i-- {
		if !HasDateExpression(history[i].Text) {
			continue
		}
		spec, err := ResolveDate(history[i].Text, today, nil)
		if err != nil {
			continue
		}
		return &spec, nil
	}

	if prev != nil {
		return prev, nil
	}
	return nil, nil
}
