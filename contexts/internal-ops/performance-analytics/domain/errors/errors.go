package errors

import "errors"

var (
	ErrInvalidInput = errors.New("analytics query input is invalid")
	ErrInvalidRange = errors.New("analytics range must be valid days with from <= to")
)
