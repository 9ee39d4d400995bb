package progress

import "errors"

var (
	ErrMilestoneNotFound       = errors.New("progress milestone not found")
	ErrInvalidStatus           = errors.New("invalid milestone status")
	ErrInvalidStatusTransition = errors.New("invalid milestone status transition")
	ErrInvalidCategory         = errors.New("invalid milestone category")
)
