package errors

import "errors"

var (
	ErrInvalidInput              = errors.New("assignment input is invalid")
	ErrShipmentNotFound          = errors.New("shipment not found")
	ErrOperatorNotFound          = errors.New("operator not found")
	ErrAssignmentNotFound        = errors.New("assignment not found")
	ErrDuplicateActiveAssignment = errors.New("shipment already has an active assignment")
	ErrShipmentNotAssignable     = errors.New("shipment is not awaiting assignment")
	ErrCandidateNotValidated     = errors.New("candidate has not passed validation for this shipment")
	ErrOverrideReasonRequired    = errors.New("override requires a justification reason")
	ErrViolationNotOverridable   = errors.New("this constraint type cannot be overridden")
	ErrConstraintsViolated       = errors.New("schedule violates blocking constraints")
	ErrInvalidStatusTransition   = errors.New("assignment status transition is not allowed")
	ErrCommitFailed              = errors.New("assignment commit failed and was rolled back")
)
