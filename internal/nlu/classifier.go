package nlu

import (
	"regexp"
	"strings"
)

// weatherWordsEN are matched with word boundaries so that short words do not
// fire inside unrelated text.
var weatherWordsEN = regexp.MustCompile(`(?i)\b(?:weather|temperature|forecast|rain|rainy|raining|snow|snowy|snowing|sunny|cloudy|cloud|humid|humidity|wind|windy|storm|stormy|umbrella|hot|cold|warm|chilly|freezing|degrees|climate|uv|sunscreen|wear)\b`)

// weatherWordsJA are matched by substring; Japanese has no word boundaries.
var weatherWordsJA = []string{
	"天気", "気温", "予報", "雨", "雪", "晴れ", "曇り", "暑い", "寒い",
	"傘", "湿度", "風", "気候", "服装",
}

// IsWeatherRelated reports whether the utterance should enter the weather
// pipeline at all. A fixed bilingual keyword list is consulted regardless of
// the request's language tag, and a bare date expression ("how about
// tomorrow?", "明後日は？") counts as an implicit follow-up weather query.
// Non-matching utterances are answered with a canned off-topic reply and never
// reach the location or weather providers.
func IsWeatherRelated(utterance, language string) bool {
	_ = language // term tables cover both languages; mixed input is common
	if weatherWordsEN.MatchString(utterance) {
		return true
	}
	for _, w := range weatherWordsJA {
		if strings.Contains(utterance, w) {
			return true
		}
	}
	return HasDateExpression(utterance)
}
