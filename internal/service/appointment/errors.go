package appointment

import "errors"

var (
	ErrForbidden        = errors.New("not authorized to change this appointment")
	ErrStudentsOnly     = errors.New("only students can book appointments")
	ErrStudentView      = errors.New("only students can view their appointments")
	ErrProfessorView    = errors.New("only professors can view their appointments")
	ErrNotFound         = errors.New("appointment not found")
	ErrSlotNotFound     = errors.New("availability slot not found")
	ErrSlotNotAvailable = errors.New("this slot is already booked")
	ErrAlreadyCompleted = errors.New("appointment is already completed")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrInvalidStatus    = errors.New("status must be scheduled, cancelled or completed")
)
