package powersource

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPowerSource is returned when the platform reports no power sources.
	ErrNoPowerSource = errors.New("no power source found")

	// ErrDivisionByZero is returned when the max capacity is 0.
	ErrDivisionByZero = errors.New("max capacity is 0")

	// ErrInvalidCapacity is returned when a capacity is negative.
	ErrInvalidCapacity = errors.New("capacity is negative")

	// ErrFieldMissing matches any FieldError of kind FieldMissing.
	ErrFieldMissing = errors.New("field missing")

	// ErrTypeMismatch matches any FieldError of kind TypeMismatch.
	ErrTypeMismatch = errors.New("type mismatch")
)

// FieldErrorKind tells why a field could not be extracted from a record.
type FieldErrorKind int

const (
	FieldMissing FieldErrorKind = iota
	TypeMismatch
)

// FieldError is returned by the typed accessors.
type FieldError struct {
	Kind FieldErrorKind
	Key  string
	// Want is the expected type name, set for TypeMismatch.
	Want string
	// Got is the value found, set for TypeMismatch.
	Got any
}

func (e *FieldError) Error() string {
	if e.Kind == TypeMismatch {
		return fmt.Sprintf("field %q: expected %s, got %T", e.Key, e.Want, e.Got)
	}
	return fmt.Sprintf("field %q is missing", e.Key)
}

// Is makes errors.Is(err, ErrFieldMissing) and errors.Is(err, ErrTypeMismatch) work.
func (e *FieldError) Is(target error) bool {
	switch target {
	case ErrFieldMissing:
		return e.Kind == FieldMissing
	case ErrTypeMismatch:
		return e.Kind == TypeMismatch
	}
	return false
}
