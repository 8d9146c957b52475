package weather

import (
	"fmt"
	"net/http"
)

// LocationNotFoundError is an error used to encode when geocoding found no match
type LocationNotFoundError struct {
	Location string
}

// NewLocationNotFoundError constructs a new LocationNotFoundError
func NewLocationNotFoundError(location string) *LocationNotFoundError {
	return &LocationNotFoundError{
		Location: location,
	}
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("location '%s' could not be found", e.Location)
}

// StatusCode maps the error to a not found response
func (e *LocationNotFoundError) StatusCode() int {
	return http.StatusNotFound
}
