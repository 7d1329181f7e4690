package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyImage = errors.New("image data is required")
)
