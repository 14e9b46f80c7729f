package hough

import "errors"

var (
	// ErrType is returned when a size parameter is not a whole number.
	ErrType = errors.New("size parameters must be integers")

	// ErrRange is returned when the size range is empty or negative.
	ErrRange = errors.New("invalid size range")

	// ErrOverflow is returned when maxLength × 4 exceeds the configured guard.
	ErrOverflow = errors.New("size exceeds overflow guard")

	// ErrNilSource is returned by Adaptive when no random source is supplied.
	ErrNilSource = errors.New("random source is nil")

	// ErrNilImage is returned when no edge image is supplied.
	ErrNilImage = errors.New("edge image is nil")
)
