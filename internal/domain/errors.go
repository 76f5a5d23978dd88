package domain

import "fmt"

// ValidationError reports malformed input on a single field. It is not
// retryable; the message is safe to surface to the caller verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidStateError reports an operation that is not legal in the entity's
// current lifecycle state. The caller must re-fetch and re-decide.
type InvalidStateError struct {
	Entity  string
	State   string
	Message string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Entity, e.State, e.Message)
}

// NotFoundError reports a reference to an id that does not exist.
type NotFoundError struct {
	Entity string
	ID     int32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError reports a uniqueness violation: duplicate registration
// number, duplicate phone or tax id, an already occupied room, or a
// duplicate room within an agreement.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// CapacityError reports that a contractor is at the active-agreement ceiling.
type CapacityError struct {
	Message string
}

func (e *CapacityError) Error() string {
	return e.Message
}
