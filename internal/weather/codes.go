package weather

// descriptionUnknown is used for weather codes outside the WMO table and for
// records whose upstream data was entirely unavailable.
const descriptionUnknown = "Unknown"

// DescriptionUnavailable flags a record whose numeric fields could not be
// retrieved from any source.
const DescriptionUnavailable = "Weather data unavailable"

// codeDescriptions maps WMO weather interpretation codes (as used by
// Open-Meteo) to human-readable descriptions.
var codeDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// DescribeCode returns the human-readable description for a WMO weather code.
// Unknown and absent codes map to a generic label.
func DescribeCode(code *int) string {
	if code == nil {
		return descriptionUnknown
	}
	if desc, ok := codeDescriptions[*code]; ok {
		return desc
	}
	return descriptionUnknown
}
