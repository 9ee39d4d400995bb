package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSlotTaken               = errors.New("this time slot is already booked")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrAlreadyPaid             = errors.New("appointment is already paid")
)
