package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/weather"
	"github.com/termdetox/terminal-detox/types"
)

type fakeAdapter struct {
	err error
}

func (f *fakeAdapter) Name() string {
	return "Weather"
}

func (f *fakeAdapter) Fetch(ctx context.Context, params weather.Params) (types.WeatherData, error) {
	if f.err != nil {
		return types.WeatherData{}, f.err
	}

	return types.WeatherData{
		Location: params.Location,
		Forecast: make([]types.ForecastDay, 5),
	}, nil
}

func get(t *testing.T, adapter *fakeAdapter, target string) (*httptest.ResponseRecorder, types.Response[types.WeatherData]) {
	router := Routes(&sources.Policy{Logger: zerolog.Nop()}, adapter)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", target, nil)
	router.ServeHTTP(w, req)

	var response types.Response[types.WeatherData]
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestGetLondon(t *testing.T) {
	w, response := get(t, &fakeAdapter{}, "/?location=London")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "London", response.Data.Location)
	assert.Equal(t, 5, len(response.Data.Forecast))
}

func TestGetDefaultLocation(t *testing.T) {
	_, response := get(t, &fakeAdapter{}, "/")
	assert.Equal(t, "New York", response.Data.Location)
}

func TestGetUnknownLocation(t *testing.T) {
	w, response := get(t, &fakeAdapter{err: weather.NewLocationNotFoundError("Atlantis")}, "/?location=Atlantis")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, true, response.Data == nil)
	assert.Equal(t, "location 'Atlantis' could not be found", response.ErrorMessage())
}
