package types

import "time"

// TimestampFormat is the ISO-8601 layout used for every envelope timestamp
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Response is the envelope shape returned by every API endpoint.
// Data and Error may both be set when a source answered with degraded data
type Response[T any] struct {
	Data      *T      `json:"data"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
}

// NewResponse wraps the data in an envelope stamped with the current time
func NewResponse[T any](data T) Response[T] {
	return Response[T]{
		Data:      &data,
		Error:     nil,
		Timestamp: Timestamp(time.Now()),
	}
}

// NewErrorResponse creates an envelope without data
func NewErrorResponse[T any](message string) Response[T] {
	return Response[T]{
		Data:      nil,
		Error:     &message,
		Timestamp: Timestamp(time.Now()),
	}
}

// WithWarning attaches a non-fatal message to an envelope that still carries data
func (r Response[T]) WithWarning(message string) Response[T] {
	r.Error = &message
	return r
}

// ErrorMessage returns the error string or "" when there is none
func (r Response[T]) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// Timestamp formats a time the way envelope timestamps are written
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
