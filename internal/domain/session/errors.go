package session

import "errors"

var (
	ErrSessionNotFound          = errors.New("therapy session not found")
	ErrInvalidStatus            = errors.New("invalid session status")
	ErrInvalidStatusTransition  = errors.New("invalid session status transition")
	ErrPatientDoubleBooked      = errors.New("patient already has a session at this date and time")
	ErrPractitionerDoubleBooked = errors.New("practitioner already has a session at this date and time")
)
