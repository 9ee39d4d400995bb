package therapy

import "errors"

var (
	ErrTherapyNotFound = errors.New("therapy type not found")
	ErrInvalidCategory = errors.New("invalid therapy category")
	ErrInvalidDuration = errors.New("therapy duration must be between 15 and 480 minutes")
	ErrNegativePrice   = errors.New("therapy price cannot be negative")
)
