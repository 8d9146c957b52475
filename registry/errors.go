package registry

import "fmt"

// UnknownWidgetError is an error used to encode when a widget id is not in the catalog
type UnknownWidgetError struct {
	ID string
}

// NewUnknownWidgetError constructs a new UnknownWidgetError
func NewUnknownWidgetError(id string) *UnknownWidgetError {
	return &UnknownWidgetError{
		ID: id,
	}
}

func (e *UnknownWidgetError) Error() string {
	return fmt.Sprintf("unknown widget '%s'", e.ID)
}

// WidgetNotEnabledError is an error used to encode when an operation needs an enabled widget
type WidgetNotEnabledError struct {
	ID string
}

// NewWidgetNotEnabledError constructs a new WidgetNotEnabledError
func NewWidgetNotEnabledError(id string) *WidgetNotEnabledError {
	return &WidgetNotEnabledError{
		ID: id,
	}
}

func (e *WidgetNotEnabledError) Error() string {
	return fmt.Sprintf("widget '%s' is not enabled", e.ID)
}

// InvalidDirectionError is an error used to encode when a move direction is neither up nor down
type InvalidDirectionError struct {
	Direction string
}

// NewInvalidDirectionError constructs a new InvalidDirectionError
func NewInvalidDirectionError(direction string) *InvalidDirectionError {
	return &InvalidDirectionError{
		Direction: direction,
	}
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("invalid direction '%s': expected up or down", e.Direction)
}
