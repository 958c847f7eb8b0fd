package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the message or model attribute that
// failed validation. Nested attributes use dot notation with element
// indexes, for example Owners.3 or Patch.SettlementGas. A nil err gives a
// nil result.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	// the stack is recorded once, at the innermost wrap
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds a field error to errorsOrNil. It is a no-op for a nil
// fieldErrOrNil, so validation code can collect results unconditionally.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

type fielder interface {
	Field() string
}

// FieldErrors walks err, including every error of a multi error, and
// returns the field errors created for fieldName.
func FieldErrors(err error, fieldName string) []error {
	if isNilErr(err) {
		return nil
	}
	if f, ok := err.(fielder); ok && f.Field() == fieldName {
		return []error{err}
	}
	switch e := err.(type) {
	case unpacker:
		var res []error
		for _, inner := range e.Unpack() {
			res = append(res, FieldErrors(inner, fieldName)...)
		}
		return res
	case causer:
		return FieldErrors(e.Cause(), fieldName)
	}
	return nil
}
