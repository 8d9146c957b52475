package weather

import "math"

// Icons per condition label
var conditionIcons = map[string]string{
	"Clear":         "☀",
	"Sunny":         "☀",
	"Partly cloudy": "⛅",
	"Cloudy":        "☁",
	"Overcast":      "☁",
	"Mist":          "🌫",
	"Fog":           "🌫",
	"Rain":          "🌧",
	"Light rain":    "🌦",
	"Heavy rain":    "⛈",
	"Snow":          "❄",
	"Light snow":    "🌨",
	"Heavy snow":    "❄",
	"Thunderstorm":  "⛈",
	"Drizzle":       "🌦",
}

// Condition maps a WMO weather interpretation code to a condition label and its icon
func Condition(code int) (string, string) {
	var label string
	switch {
	case code == 0:
		label = "Clear"
	case code == 1 || code == 2:
		label = "Partly cloudy"
	case code == 3:
		label = "Overcast"
	case code == 45 || code == 48:
		label = "Fog"
	case code >= 51 && code <= 57:
		label = "Drizzle"
	case code == 61 || code == 80:
		label = "Light rain"
	case code == 63 || code == 66 || code == 81:
		label = "Rain"
	case code == 65 || code == 67 || code == 82:
		label = "Heavy rain"
	case code == 71 || code == 85:
		label = "Light snow"
	case code == 73 || code == 77:
		label = "Snow"
	case code == 75 || code == 86:
		label = "Heavy snow"
	case code >= 95 && code <= 99:
		label = "Thunderstorm"
	default:
		label = "Cloudy"
	}

	return label, conditionIcons[label]
}

var compassPoints = []string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE", "S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}

// WindDirection converts a bearing in degrees to one of the 16 compass points
func WindDirection(degrees float64) string {
	index := int(math.Round(degrees/22.5)) % 16
	if index < 0 {
		index += 16
	}
	return compassPoints[index]
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
