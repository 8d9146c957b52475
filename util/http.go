package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/termdetox/terminal-detox/types"
)

// StatusCoder is implemented by errors that know which HTTP status they map to
type StatusCoder interface {
	StatusCode() int
}

// ResponseCodeFromError resolves a status code from an error
func ResponseCodeFromError(err error) int {
	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode()
	}

	return http.StatusInternalServerError
}

// Respond writes a successful envelope containing the data
func Respond[T any](w http.ResponseWriter, data T) {
	write(w, types.NewResponse(data), http.StatusOK)
}

// RespondWithWarning writes an envelope that carries data alongside a non-fatal message
func RespondWithWarning[T any](w http.ResponseWriter, data T, warning string) {
	write(w, types.NewResponse(data).WithWarning(warning), http.StatusOK)
}

// Error creates a standardized error envelope
func Error(w http.ResponseWriter, originalError error) {
	ErrorWithCode(w, originalError, ResponseCodeFromError(originalError))
}

// ErrorWithCode creates a standardized error envelope with a status code
func ErrorWithCode(w http.ResponseWriter, originalError error, statusCode int) {
	response := types.NewErrorResponse[any](fmt.Sprint(originalError))
	write(w, response, statusCode)
}

func write(w http.ResponseWriter, response interface{}, statusCode int) {
	jsonResponse, err := json.Marshal(response)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonResponse)
}
