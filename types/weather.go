package types

// WeatherData is the payload of the weather endpoint
type WeatherData struct {
	Location    string         `json:"location"`
	Current     CurrentWeather `json:"current"`
	Forecast    []ForecastDay  `json:"forecast"`
	LastUpdated string         `json:"lastUpdated"`
}

// CurrentWeather holds the present conditions at a location
type CurrentWeather struct {
	Temp          float64 `json:"temp"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection string  `json:"wind_direction"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
	Visibility    float64 `json:"visibility"`
	Pressure      float64 `json:"pressure"`
}

// ForecastDay is a single day of the daily forecast
type ForecastDay struct {
	Date          string  `json:"date"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
	Precipitation float64 `json:"precipitation"`
}
