package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// jsonObjectRe grabs the outermost {...} span from a reply that may wrap the
// JSON in prose or code fences.
var jsonObjectRe = regexp.MustCompile(`\{[\s\S]*\}`)

func extractJSON(s string) (string, bool) {
	m := jsonObjectRe.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}

func languageName(tag string) string {
	if tag == "ja" {
		return "Japanese"
	}
	return "English"
}

// analyzeSystemPrompt builds the extraction instruction. The session snapshot
// and concrete surrounding dates are substituted so the model resolves
// relative terms against the server's clock, not its own.
func analyzeSystemPrompt(req AnalyzeRequest) string {
	today := req.Today.Format("2006-01-02")
	tomorrow := req.Today.AddDate(0, 0, 1).Format("2006-01-02")
	yesterday := req.Today.AddDate(0, 0, -1).Format("2006-01-02")

	lastCity := req.LastCity
	if lastCity == "" {
		lastCity = "None"
	}
	lastDate := req.LastDate
	if lastDate == "" {
		lastDate = "Today"
	}

	return fmt.Sprintf(`You are a friendly weather chatbot that supports both English and Japanese. Extract city name and date from user queries.

LANGUAGE: User is asking in %s. Respond in chatResponse using the same language.

CONVERSATION CONTEXT:
- Last City Asked: %s
- Last Date: %s
- Today: %s
- Tomorrow: %s
- Yesterday: %s

RULES:
1. For weather queries: return needsWeatherData: true with city name and date
2. For chat/greetings/off-topic: return needsWeatherData: false with friendly chatResponse
3. Extract city names only, no coordinates: Tokyo, Delhi, Kyoto, London, Paris, etc.
4. Handle Japanese: 東京=Tokyo, 京都=Kyoto, 大阪=Osaka, 天気=weather, 明日=tomorrow, 昨日=yesterday
5. If no city mentioned but Last City exists: use Last City
6. If user says "tomorrow"/"明日": use tomorrow's date with dateType "forecast"
7. If user says "yesterday"/"昨日": use yesterday's date with dateType "historical"
8. For specific dates like "10th October" assume the current year

RESPOND WITH ONLY THIS JSON:
{
  "needsWeatherData": boolean,
  "city": "city name or null",
  "targetDate": "YYYY-MM-DD or null",
  "dateType": "current or forecast or historical",
  "chatResponse": "friendly response or null"
}`,
		languageName(req.Language), lastCity, lastDate, today, tomorrow, yesterday)
}

// composeSystemPrompt builds the narration instruction around the normalized
// record. Prompt rules: plain "Weather Summary" heading, tense follows the
// date type, reply language follows the request.
func composeSystemPrompt(req ComposeRequest) string {
	data, err := json.MarshalIndent(req.Record, "", "  ")
	if err != nil {
		data = []byte("{}")
	}

	targetDate := req.Record.TargetDate
	if targetDate == "" {
		targetDate = "Current"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a weather and lifestyle assistant. Format the weather data into a comprehensive response with fashion and travel recommendations.

WEATHER DATA PROVIDED:
%s

Context:
- Date Type: %s
- Location: %s
- Target Date: %s

FORMATTING RULES:
1. Start with "Weather Summary" (NO stars or special characters in heading)
2. Use clear, conversational language
3. Include specific temperature, humidity, wind, and precipitation details
4. Provide fashion recommendations (clothing, materials, accessories)
5. Suggest activities and travel advice
6. Give practical tips based on UV index and conditions
7. If historical: use past tense. If forecast: mention it is a prediction
8. If the data is flagged unavailable, say so honestly and keep advice general

Language: Respond in %s

IMPORTANT: Do NOT use stars (**) or special formatting characters in headings. Use plain text only.`,
		string(data), req.Record.DateType, req.Record.City, targetDate, languageName(req.Language))
	return b.String()
}
