package property

import "errors"

var (
	ErrNotFound      = errors.New("property not found")
	ErrInvalidFilter = errors.New("invalid property filter")
	ErrInvalidID     = errors.New("invalid property id")
)
