package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrorKind classifies a domain error
type ErrorKind string

const (
	// ErrKindSanity: a financial field is negative or exceeds the extreme-value ceiling
	ErrKindSanity ErrorKind = "SANITY"
	// ErrKindImmutability: a mutation was attempted on a non-DRAFT snapshot
	ErrKindImmutability ErrorKind = "IMMUTABILITY"
	// ErrKindTransition: a lifecycle transition is not allowed from the current status
	ErrKindTransition ErrorKind = "TRANSITION"
	// ErrKindInsufficientData: no stage precedence branch matched the rule results
	ErrKindInsufficientData ErrorKind = "INSUFFICIENT_DATA"
	// ErrKindInvalidSignal: a signal carries a value no rule can interpret
	ErrKindInvalidSignal ErrorKind = "INVALID_SIGNAL"
	ErrKindInvalidInput  ErrorKind = "INVALID_INPUT"
	ErrKindNotFound      ErrorKind = "NOT_FOUND"
	ErrKindDuplicate     ErrorKind = "DUPLICATE"
)

// Sentinels for errors.Is matching by kind
var (
	ErrSanity           = &Error{Kind: ErrKindSanity}
	ErrImmutability     = &Error{Kind: ErrKindImmutability}
	ErrTransition       = &Error{Kind: ErrKindTransition}
	ErrInsufficientData = &Error{Kind: ErrKindInsufficientData}
	ErrInvalidSignal    = &Error{Kind: ErrKindInvalidSignal}
	ErrInvalidInput     = &Error{Kind: ErrKindInvalidInput}
	ErrNotFound         = &Error{Kind: ErrKindNotFound}
	ErrDuplicate        = &Error{Kind: ErrKindDuplicate}
)

// Error is the single error type raised by the domain and its engines.
// Only the context fields relevant to Kind are populated.
type Error struct {
	Kind       ErrorKind
	SnapshotID uuid.UUID
	Field      string
	Value      string
	Rule       string
	Status     SnapshotStatus
	Action     string
	Detail     string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(string(e.Kind)))
	b.WriteString(" error")

	if e.Action != "" {
		fmt.Fprintf(&b, ": cannot %s", e.Action)
	}
	if e.SnapshotID != uuid.Nil {
		fmt.Fprintf(&b, ": snapshot %s", e.SnapshotID)
	}
	if e.Status != "" {
		fmt.Fprintf(&b, " is %s", e.Status)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s", e.Field)
		if e.Value != "" {
			fmt.Fprintf(&b, "=%s", e.Value)
		}
	}
	if e.Rule != "" {
		fmt.Fprintf(&b, " (%s)", e.Rule)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewSanityError reports a financial field that failed a sanity rule
func NewSanityError(field, value, rule, detail string) *Error {
	return &Error{Kind: ErrKindSanity, Field: field, Value: value, Rule: rule, Detail: detail}
}

// NewImmutabilityError reports a mutation attempted on a non-DRAFT snapshot
func NewImmutabilityError(snapshotID uuid.UUID, status SnapshotStatus, action string) *Error {
	return &Error{Kind: ErrKindImmutability, SnapshotID: snapshotID, Status: status, Action: action}
}

// NewTransitionError reports a lifecycle transition that is not allowed
func NewTransitionError(snapshotID uuid.UUID, status SnapshotStatus, action, detail string) *Error {
	return &Error{Kind: ErrKindTransition, SnapshotID: snapshotID, Status: status, Action: action, Detail: detail}
}

// NewInsufficientDataError reports that no stage could be derived
func NewInsufficientDataError(detail string) *Error {
	return &Error{Kind: ErrKindInsufficientData, Detail: detail}
}

// NewInvalidSignalError reports a signal value outside of its known domain
func NewInvalidSignalError(signal, value, rule string) *Error {
	return &Error{Kind: ErrKindInvalidSignal, Field: signal, Value: value, Rule: rule}
}

// NewInvalidInputError reports malformed input outside of the financial checks
func NewInvalidInputError(field, detail string) *Error {
	return &Error{Kind: ErrKindInvalidInput, Field: field, Detail: detail}
}

// NewNotFoundError reports a missing entity
func NewNotFoundError(detail string) *Error {
	return &Error{Kind: ErrKindNotFound, Detail: detail}
}

// NewDuplicateError reports a uniqueness violation
func NewDuplicateError(detail string) *Error {
	return &Error{Kind: ErrKindDuplicate, Detail: detail}
}
