package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNilRecipe          = errors.New("recipe is nil")
	ErrInvalidScale       = errors.New("scale factor must be a positive finite number")
	ErrNoYield            = errors.New("recipe has no usable yield")
	ErrUnsupportedStorage = errors.New("unsupported storage type")
)
