package practitioner

import "errors"

var (
	ErrPractitionerNotFound = errors.New("practitioner not found")
	ErrInvalidWorkingHours  = errors.New("working hours must be HH:mm with start before end")
	ErrOutsideWorkingHours  = errors.New("practitioner is not working at the requested time")
)
