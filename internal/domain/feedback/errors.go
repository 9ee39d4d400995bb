package feedback

import "errors"

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrInvalidMood      = errors.New("invalid mood value")
)
