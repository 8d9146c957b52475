package sources

import (
	"fmt"
	"net/http"
)

// UpstreamError is an error used to encode when an upstream API
// answered with a non-success status code
type UpstreamError struct {
	Source string
	Status int
}

// NewUpstreamError constructs a new UpstreamError
func NewUpstreamError(source string, status int) *UpstreamError {
	return &UpstreamError{
		Source: source,
		Status: status,
	}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API unavailable: %d %s", e.Source, e.Status, http.StatusText(e.Status))
}

// RequestError is an error used to encode when a request to an upstream API
// could not be completed at all (DNS, connection, timeout)
type RequestError struct {
	Source string
	Err    error
}

// NewRequestError constructs a new RequestError
func NewRequestError(source string, err error) *RequestError {
	return &RequestError{
		Source: source,
		Err:    err,
	}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Source, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// DecodeError is an error used to encode when an upstream payload was malformed
type DecodeError struct {
	Source string
	Err    error
}

// NewDecodeError constructs a new DecodeError
func NewDecodeError(source string, err error) *DecodeError {
	return &DecodeError{
		Source: source,
		Err:    err,
	}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EmptyResultError is an error used to encode when an upstream answered
// successfully but without any usable entries
type EmptyResultError struct {
	Source string
}

// NewEmptyResultError constructs a new EmptyResultError
func NewEmptyResultError(source string) *EmptyResultError {
	return &EmptyResultError{
		Source: source,
	}
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("No %s data available", e.Source)
}

// InvalidParamError is an error used to encode when a request parameter
// is not acceptable (used to return a 400 instead of a 500)
type InvalidParamError struct {
	Param  string
	Value  string
	Reason string
}

// NewInvalidParamError constructs a new InvalidParamError
func NewInvalidParamError(param string, value string, reason string) *InvalidParamError {
	return &InvalidParamError{
		Param:  param,
		Value:  value,
		Reason: reason,
	}
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid value '%s' for parameter '%s': %s", e.Value, e.Param, e.Reason)
}

// StatusCode maps the error to a bad request response
func (e *InvalidParamError) StatusCode() int {
	return http.StatusBadRequest
}
