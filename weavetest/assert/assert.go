/*
Package assert provides the fatal assertions used by the package tests.
Every helper stops the test on the first failed expectation.
*/
package assert

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/iov-one/relay/errors"
)

// Tester is the minimal subset of testing.TB needed to run most assert commands
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if given value is not nil. Errors are printed with
// their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

// isNil also accepts typed nil pointers, maps, slices and funcs stored in
// an interface.
func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if two values are not equal. Amounts given as
// *big.Int are compared by value.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if w, ok := want.(*big.Int); ok {
		if g, ok := got.(*big.Int); ok {
			if !amountsEqual(w, g) {
				t.Fatalf("amounts not equal\nwant %v\n got %v", w, g)
			}
			return
		}
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

func amountsEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// FieldError ensures that err carries exactly one error for fieldName and
// that it matches want. A nil want ensures there is no error for the field.
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, fieldName)
	if want == nil {
		if len(errs) != 0 {
			t.Fatalf("field %s: want no error, got %d: %v", fieldName, len(errs), errs)
		}
		return
	}
	if len(errs) != 1 {
		t.Fatalf("field %s: want one %q error, got %d: %v", fieldName, want, len(errs), errs)
		return
	}
	if !want.Is(errs[0]) {
		t.Fatalf("field %s: want %q, got %q", fieldName, want, errs[0])
	}
}

// IsErr fails the test unless got is want or was wrapped from it.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
