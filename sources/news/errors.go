package news

import "fmt"

// CacheNotInitializedError is an error used to encode when the feed cache has not been loaded yet
type CacheNotInitializedError struct {
	Action string
}

// NewCacheNotInitializedError constructs a new CacheNotInitializedError
func NewCacheNotInitializedError(action string) *CacheNotInitializedError {
	return &CacheNotInitializedError{
		Action: action,
	}
}

func (e *CacheNotInitializedError) Error() string {
	return fmt.Sprintf("cannot %s: feed cache has not been initialized", e.Action)
}
