package dashboard

import "errors"

var (
	// ErrReferenceNotFound indicates an action referenced an id that does not resolve.
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrAlreadyPaid indicates a duplicate payment attempt.
	ErrAlreadyPaid = errors.New("project is already paid")
	// ErrUnknownAction indicates an unrecognized action kind.
	ErrUnknownAction = errors.New("unknown action")
	// ErrProjectNotFound indicates no project has the requested id.
	ErrProjectNotFound = errors.New("project not found")
	// ErrClientNotFound indicates no client has the requested id.
	ErrClientNotFound = errors.New("client not found")
	// ErrNonPositiveAmount indicates a payment amount of zero or less.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrInvalidInput indicates malformed action or request input.
	ErrInvalidInput = errors.New("invalid dashboard input")
)
