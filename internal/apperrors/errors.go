package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrState indicates an operation that is not allowed in the resource's current state.
var ErrState = errors.New("invalid state")

// ErrConfiguration indicates a required mapping (e.g. a default account) could not be resolved.
var ErrConfiguration = errors.New("configuration error")

// ErrConflict indicates a concurrent write conflict. Storage adapters retry on it.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrInternal indicates an infrastructure failure.
var ErrInternal = errors.New("internal error")

// ValidationError is returned when a request fails structural validation.
// Totals are set only for balance failures.
type ValidationError struct {
	Message     string
	DebitTotal  *decimal.Decimal
	CreditTotal *decimal.Decimal
	Difference  *decimal.Decimal
}

func (e *ValidationError) Error() string {
	if e.Difference != nil {
		return fmt.Sprintf("%s: %s (debits %s, credits %s, difference %s)",
			ErrValidation, e.Message, e.DebitTotal.String(), e.CreditTotal.String(), e.Difference.String())
	}
	return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError without balance totals.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NewUnbalancedError builds a ValidationError carrying the computed totals.
func NewUnbalancedError(debit, credit decimal.Decimal) *ValidationError {
	diff := debit.Sub(credit).Abs()
	return &ValidationError{
		Message:     "debits and credits do not balance",
		DebitTotal:  &debit,
		CreditTotal: &credit,
		Difference:  &diff,
	}
}

// NotFoundError reports a missing resource for a tenant.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrNotFound, e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError builds a NotFoundError for the given resource kind and id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// StateError reports an operation rejected by the resource's lifecycle.
type StateError struct {
	Resource string
	ID       string
	State    string
	Message  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s %s is %s: %s", ErrState, e.Resource, e.ID, e.State, e.Message)
}

func (e *StateError) Is(target error) bool { return target == ErrState }

// NewStateError builds a StateError.
func NewStateError(resource, id, state, message string) *StateError {
	return &StateError{Resource: resource, ID: id, State: state, Message: message}
}

// ConfigurationError is raised by collaborators that cannot resolve a required mapping.
type ConfigurationError struct {
	Mapping string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Mapping, e.Message)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(mapping, message string) *ConfigurationError {
	return &ConfigurationError{Mapping: mapping, Message: message}
}

// AppError wraps infrastructure failures with a status code hint.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
