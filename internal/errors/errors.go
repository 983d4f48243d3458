package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

// CredentialError means the carrier or gateway rejected our service
// credentials. Callers must not proceed to submission.
type CredentialError struct {
	Message string
	Cause   error
}

func (e *CredentialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CredentialError) Unwrap() error {
	return e.Cause
}

func NewCredentialError(message string, cause error) *CredentialError {
	return &CredentialError{Message: message, Cause: cause}
}

func IsCredentialError(err error) (*CredentialError, bool) {
	if ce, ok := err.(*CredentialError); ok {
		return ce, true
	}
	return nil, false
}

// CarrierError carries the HTTP status the carrier answered with, so the
// provisioning workflow can tell a rejected pickup location (400) apart
// from a hard failure.
type CarrierError struct {
	StatusCode int
	Message    string
}

func (e *CarrierError) Error() string {
	return fmt.Sprintf("carrier responded %d: %s", e.StatusCode, e.Message)
}

func NewCarrierError(statusCode int, message string) *CarrierError {
	return &CarrierError{StatusCode: statusCode, Message: message}
}

func IsCarrierError(err error) (*CarrierError, bool) {
	if ce, ok := err.(*CarrierError); ok {
		return ce, true
	}
	return nil, false
}

// ProvisioningError means shipment creation failed after the order row was
// already committed. The order keeps its local state; only the carrier
// reference fields record the failure.
type ProvisioningError struct {
	Message string
	Cause   error
}

func (e *ProvisioningError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ProvisioningError) Unwrap() error {
	return e.Cause
}

func NewProvisioningError(message string, cause error) *ProvisioningError {
	return &ProvisioningError{Message: message, Cause: cause}
}

func IsProvisioningError(err error) (*ProvisioningError, bool) {
	if pe, ok := err.(*ProvisioningError); ok {
		return pe, true
	}
	return nil, false
}

// ReconciliationError means a status fetch failed; local state is left
// unchanged and the sync is safe to retry later.
type ReconciliationError struct {
	Message string
	Cause   error
}

func (e *ReconciliationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ReconciliationError) Unwrap() error {
	return e.Cause
}

func NewReconciliationError(message string, cause error) *ReconciliationError {
	return &ReconciliationError{Message: message, Cause: cause}
}

func IsReconciliationError(err error) (*ReconciliationError, bool) {
	if re, ok := err.(*ReconciliationError); ok {
		return re, true
	}
	return nil, false
}

type PaymentVerificationError struct {
	Message string
}

func (e *PaymentVerificationError) Error() string {
	return e.Message
}

func NewPaymentVerificationError(message string) *PaymentVerificationError {
	return &PaymentVerificationError{Message: message}
}

func IsPaymentVerificationError(err error) (*PaymentVerificationError, bool) {
	if pve, ok := err.(*PaymentVerificationError); ok {
		return pve, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{Message: message, Cause: cause}
}

func IsInternalError(err error) (*InternalError, bool) {
	if ie, ok := err.(*InternalError); ok {
		return ie, true
	}
	return nil, false
}
