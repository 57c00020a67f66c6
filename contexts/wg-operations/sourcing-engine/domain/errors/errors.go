package errors

import "errors"

var (
	ErrInvalidInput       = errors.New("sourcing input is invalid")
	ErrRequestNotFound    = errors.New("sourcing request not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrEpisodeActive      = errors.New("an open sourcing episode already exists for this shipment")
	ErrEpisodeClosed      = errors.New("sourcing episode is already assigned")
	ErrEscalationIncomplete = errors.New("escalation requires both reason and channel")
	ErrCandidateNotValidated = errors.New("candidate has not passed validation")
)
