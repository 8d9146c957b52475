package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/types"
)

// DefaultLocation is used when a request does not name one
const DefaultLocation = "New York"

const forecastDays = 5

// Params are the options of a weather request
type Params struct {
	Location string
}

// CacheKey implements sources.Keyed
func (p Params) CacheKey() string {
	return strings.ToLower(strings.TrimSpace(p.Location))
}

// Adapter fetches current conditions and the daily forecast,
// geocoding place names through Nominatim and reading the forecast from Open-Meteo
type Adapter struct {
	client      *sources.Client
	geocodeURL  string
	forecastURL string
}

// NewAdapter creates a weather adapter against the public upstreams
func NewAdapter(client *sources.Client) *Adapter {
	return NewAdapterWithURLs(client, "https://nominatim.openstreetmap.org", "https://api.open-meteo.com")
}

// NewAdapterWithURLs creates a weather adapter against the given upstream base URLs
func NewAdapterWithURLs(client *sources.Client, geocodeURL string, forecastURL string) *Adapter {
	return &Adapter{
		client:      client,
		geocodeURL:  strings.TrimRight(geocodeURL, "/"),
		forecastURL: strings.TrimRight(forecastURL, "/"),
	}
}

// Name gets the display name of the source
func (a *Adapter) Name() string {
	return "Weather"
}

// Expected JSON from the Nominatim search
type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Expected JSON from the Open-Meteo forecast
type forecastResponse struct {
	Current struct {
		Temperature         float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		WindDirection       float64 `json:"wind_direction_10m"`
		Visibility          float64 `json:"visibility"`
		SurfacePressure     float64 `json:"surface_pressure"`
	} `json:"current"`
	Daily struct {
		Time             []string  `json:"time"`
		WeatherCode      []int     `json:"weather_code"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Fetch gets the weather at the location;
// a "lat,lon" pair is used verbatim without geocoding
func (a *Adapter) Fetch(ctx context.Context, params Params) (types.WeatherData, error) {
	location := strings.TrimSpace(params.Location)
	if location == "" {
		location = DefaultLocation
	}

	lat, lon, ok := ParseCoordinates(location)
	if !ok {
		var err error
		lat, lon, err = a.geocode(ctx, location)
		if err != nil {
			return types.WeatherData{}, err
		}
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	query.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,weather_code,wind_speed_10m,wind_direction_10m,visibility,surface_pressure")
	query.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum")
	query.Set("forecast_days", strconv.Itoa(forecastDays))
	query.Set("timezone", "auto")

	var forecast forecastResponse
	err := a.client.GetJSON(ctx, a.Name(), a.forecastURL+"/v1/forecast?"+query.Encode(), nil, &forecast)
	if err != nil {
		return types.WeatherData{}, err
	}

	daily := forecast.Daily
	if len(daily.Time) < forecastDays || len(daily.WeatherCode) < forecastDays ||
		len(daily.TemperatureMax) < forecastDays || len(daily.TemperatureMin) < forecastDays {
		return types.WeatherData{}, sources.NewDecodeError(a.Name(),
			fmt.Errorf("expected %d forecast days, got %d", forecastDays, len(daily.Time)))
	}

	days := make([]types.ForecastDay, forecastDays)
	for i := range days {
		condition, icon := Condition(daily.WeatherCode[i])
		precipitation := 0.0
		if i < len(daily.PrecipitationSum) {
			precipitation = daily.PrecipitationSum[i]
		}

		days[i] = types.ForecastDay{
			Date:          daily.Time[i],
			High:          round1(daily.TemperatureMax[i]),
			Low:           round1(daily.TemperatureMin[i]),
			Condition:     condition,
			Icon:          icon,
			Precipitation: round1(precipitation),
		}
	}

	current := forecast.Current
	condition, icon := Condition(current.WeatherCode)

	// Open-Meteo reports visibility in meters
	visibility := current.Visibility / 1000
	return types.WeatherData{
		Location: location,
		Current: types.CurrentWeather{
			Temp:          round1(current.Temperature),
			FeelsLike:     round1(current.ApparentTemperature),
			Humidity:      round1(current.RelativeHumidity),
			WindSpeed:     round1(current.WindSpeed),
			WindDirection: WindDirection(current.WindDirection),
			Condition:     condition,
			Icon:          icon,
			Visibility:    round1(visibility),
			Pressure:      round1(current.SurfacePressure),
		},
		Forecast:    days,
		LastUpdated: types.Timestamp(time.Now()),
	}, nil
}

func (a *Adapter) geocode(ctx context.Context, location string) (float64, float64, error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("format", "json")
	query.Set("limit", "1")

	// Nominatim rejects requests without an identifying agent
	headers := http.Header{"User-Agent": []string{a.client.UserAgent() + " (terminal-detox weather widget)"}}

	var results []geocodeResult
	err := a.client.GetJSON(ctx, "Geocoding", a.geocodeURL+"/search?"+query.Encode(), headers, &results)
	if err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, NewLocationNotFoundError(location)
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, sources.NewDecodeError("Geocoding",
			fmt.Errorf("invalid coordinates '%s,%s'", results[0].Lat, results[0].Lon))
	}

	return lat, lon, nil
}

// ParseCoordinates parses a "lat,lon" location
func ParseCoordinates(location string) (float64, float64, bool) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, false
	}

	return lat, lon, true
}
