package chat

// Canned bilingual replies. The table is immutable after process start; every
// user-facing failure degrades to one of these instead of a raw error.

type replyKey string

const (
	keyWelcome         replyKey = "welcome"
	keyOffTopic        replyKey = "off_topic"
	keyMissingLocation replyKey = "missing_location"
	keyForecastLimit   replyKey = "forecast_limit"
	keyCityNotFound    replyKey = "city_not_found"
	keyApology         replyKey = "apology"
	keyClarify         replyKey = "clarify"
)

var replies = map[string]map[replyKey]string{
	"en": {
		keyWelcome:         "Hello! 😊 I'm your friendly weather assistant. I can check weather forecasts, suggest what to wear, and give travel advice. Which city's weather would you like to know about?",
		keyOffTopic:        "I specialize in weather! I can check forecasts, suggest what to wear, and give travel advice. Which city would you like to know about?",
		keyMissingLocation: "Which city would you like to know the weather for? 🌍 You can say something like \"weather in Tokyo\" or \"Delhi weather\"!",
		keyForecastLimit:   "Weather forecasts are only available up to 16 days in the future. Please choose a date within the next 16 days.",
		keyCityNotFound:    "I couldn't find that city. Could you check the spelling or try a nearby larger city?",
		keyApology:         "Sorry, something went wrong. Please try again.",
		keyClarify:         "I'm not quite sure what you're looking for! 😅 Which city's weather would you like to know about?",
	},
	"ja": {
		keyWelcome:         "こんにちは！😊 天気アシスタントです。天気予報を確認したり、その日の服装を提案したり、旅行のアドバイスをしたりできます。どちらの都市の天気をお知りになりたいですか？",
		keyOffTopic:        "天気のことなら何でも聞いてください！天気予報の確認や服装の提案、旅行のアドバイスができます。どちらの都市についてお知りになりたいですか？",
		keyMissingLocation: "どちらの都市の天気をお知りになりたいですか？🌍 例えば「東京の天気」や「デリーの天気」のように教えてください！",
		keyForecastLimit:   "天気予報は16日先までしかご利用いただけません。16日以内の日付をお選びください。",
		keyCityNotFound:    "その都市が見つかりませんでした。綴りをご確認いただくか、近くの大きな都市でお試しください。",
		keyApology:         "すみません、エラーが発生しました。もう一度お試しください。",
		keyClarify:         "すみません、よく理解できませんでした。😅 どちらの都市の天気をお知りになりたいですか？",
	},
}

func message(language string, key replyKey) string {
	table, ok := replies[language]
	if !ok {
		table = replies["en"]
	}
	return table[key]
}
