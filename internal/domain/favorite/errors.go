package favorite

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found")
	// ErrConcurrentChange means another writer kept removing the pair while we added it.
	ErrConcurrentChange = errors.New("favorite changed concurrently")
)
