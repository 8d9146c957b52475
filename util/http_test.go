package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/termdetox/terminal-detox/types"
)

type badParamError struct{}

func (e *badParamError) Error() string   { return "bad param" }
func (e *badParamError) StatusCode() int { return http.StatusBadRequest }

func TestRespondWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Respond(w, []string{"a", "b"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var res types.Response[[]string]
	err := json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"a", "b"}, *res.Data)
	assert.Equal(t, true, res.Error == nil)
	assert.NotEqual(t, "", res.Timestamp)
}

func TestRespondWithWarningKeepsData(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithWarning(w, 42, "using cached data")

	var res types.Response[int]
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 42, *res.Data)
	assert.Equal(t, "using cached data", res.ErrorMessage())
}

func TestErrorDefaultsToInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, errors.New("upstream down"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, nil, res["data"])
	assert.Equal(t, "upstream down", res["error"])
}

func TestErrorUsesStatusCoder(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, &badParamError{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryLimit(t *testing.T) {
	cases := []struct {
		query    string
		expected int
	}{
		{"", 15},
		{"limit=5", 5},
		{"limit=50", 20},
		{"limit=0", 15},
		{"limit=-3", 15},
		{"limit=abc", 15},
	}

	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/api/news?"+c.query, nil)
		assert.Equal(t, c.expected, QueryLimit(r, "limit", 15, 20))
	}
}

func TestQueryList(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/stocks?symbols=AAPL,%20msft,,", nil)
	assert.Equal(t, []string{"AAPL", "msft"}, QueryList(r, "symbols", []string{"SPY"}))

	r = httptest.NewRequest(http.MethodGet, "/api/stocks", nil)
	assert.Equal(t, []string{"SPY"}, QueryList(r, "symbols", []string{"SPY"}))
}
