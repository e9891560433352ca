package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/gigboard/internal/domain/activity"
	"github.com/rpggio/gigboard/internal/domain/dashboard"
)

var (
	// ErrUnknownMethod is returned by Handle for unrecognized methods.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrInvalidParams is returned when request params cannot be decoded.
	ErrInvalidParams = errors.New("invalid params")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, dashboard.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", RecoveryHint: "Call list_projects to find a valid id"}
	case errors.Is(err, dashboard.ErrClientNotFound):
		return &APIError{Code: "CLIENT_NOT_FOUND", Message: "Client not found", RecoveryHint: "Call list_clients to find a valid id"}
	case errors.Is(err, dashboard.ErrAlreadyPaid):
		return &APIError{Code: "ALREADY_PAID", Message: "Project is already paid", RecoveryHint: "Use add_payment to record an additional payment"}
	case errors.Is(err, dashboard.ErrNonPositiveAmount):
		return &APIError{Code: "INVALID_AMOUNT", Message: "Amount must be positive"}
	case errors.Is(err, dashboard.ErrReferenceNotFound):
		return &APIError{Code: "REFERENCE_NOT_FOUND", Message: "referenced client or project does not exist", Details: err.Error(), RecoveryHint: "Create the client or project first"}
	case errors.Is(err, dashboard.ErrUnknownAction):
		return &APIError{Code: "UNKNOWN_ACTION", Message: "unknown action type", Details: err.Error(), RecoveryHint: "Read gigboard://docs/guide for supported actions"}
	case errors.Is(err, dashboard.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid input", Details: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
