package availability

import "errors"

var (
	ErrForbidden        = errors.New("only professors can manage availability")
	ErrSlotNotFound     = errors.New("availability slot not found")
	ErrSlotBooked       = errors.New("cannot delete a booked availability slot")
	ErrInvalidTimeRange = errors.New("endTime must be after startTime")
)
