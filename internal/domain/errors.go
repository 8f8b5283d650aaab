package domain

import "errors"

var (
	// ErrNotFound indicates the referenced backend entity does not exist,
	// e.g. resolving an image file the backend has no record of.
	ErrNotFound = errors.New("not found")
)
