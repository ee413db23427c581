package dominant

import "errors"

var (
	// ErrEmptyInput is returned when a grid holds no opaque sample to seed from.
	ErrEmptyInput = errors.New("no opaque samples in grid")
	// ErrInvalidArgument marks caller errors such as k < 1 or stride < 1.
	ErrInvalidArgument = errors.New("invalid argument")
)
