package errors

import "errors"

var (
	ErrInvalidInput      = errors.New("shipment input is invalid")
	ErrInvalidWindow     = errors.New("time window must start before it ends")
	ErrInvalidTimezone   = errors.New("timezone is not a valid IANA name")
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrOperatorNotFound  = errors.New("operator not found")
	ErrDuplicateShipment = errors.New("shipment reference already exists")
)
