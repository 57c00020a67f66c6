package errors

import "errors"

var (
	ErrInvalidInput    = errors.New("hub capacity input is invalid")
	ErrSlotNotFound    = errors.New("capacity slot not found")
	ErrSlotUnavailable = errors.New("capacity slot is at max capacity or held by another shipment")
	ErrHoldNotFound    = errors.New("no active hold for this shipment on the slot")
)
