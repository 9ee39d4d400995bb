package patient

import "errors"

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrInvalidConstitution = errors.New("invalid constitution value")
	ErrInvalidStatus       = errors.New("invalid patient status")
)
