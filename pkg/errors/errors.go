package errors

import (
	"errors"
	"fmt"
)

var (
	// Lookup and input
	ErrNotFound   = errors.New("record not found")
	ErrBadRequest = errors.New("invalid request")

	// Draft / commit lifecycle
	ErrDraftNotFound  = errors.New("no draft stored for this work item")
	ErrNotRemovable   = errors.New("equipment is neither installed nor a removal candidate")
	ErrCommitInFlight = errors.New("a commit is already in progress for this work item")
	ErrCommitRejected = errors.New("commit boundary rejected the payload")
)

// HttpError carries an HTTP status code together with the user-facing message
// and the internal error kept for the logs only.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// ConflictError is returned when an install is attempted against a contract
// line that already has an active binding. The draft is left unchanged.
type ConflictError struct {
	ContractBaselineID string
	EquipmentID        string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("contract line %s is already bound (attempted unit %s)", e.ContractBaselineID, e.EquipmentID)
}

func NewConflictError(contractBaselineID, equipmentID string) *ConflictError {
	return &ConflictError{ContractBaselineID: contractBaselineID, EquipmentID: equipmentID}
}

// ValidationError is raised by the completion assembler when the final payload
// violates a cross-field invariant. It blocks that commit attempt only; the
// draft remains editable.
type ValidationError struct {
	EquipmentID string
	Rule        string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("commit payload invalid for equipment %s: %s", e.EquipmentID, e.Rule)
}

func NewValidationError(equipmentID, rule string) *ValidationError {
	return &ValidationError{EquipmentID: equipmentID, Rule: rule}
}
