package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNewAndIsType(t *testing.T) {
	err := New(ErrorTypeEmptyFile, "no data rows")

	if !IsType(err, ErrorTypeEmptyFile) {
		t.Error("expected empty_file type")
	}
	if IsType(err, ErrorTypeNotFound) {
		t.Error("unexpected not_found type")
	}
	if len(err.Stack) == 0 {
		t.Error("expected captured stack")
	}
}

func TestWrapPreservesTypeChecks(t *testing.T) {
	cause := New(ErrorTypeColumnNotFound, "column \"id\" not found")
	err := Wrap(cause, ErrorTypeValidation, "merge failed")

	// The outer type wins for IsType, but the cause stays unwrappable.
	if !IsType(err, ErrorTypeValidation) {
		t.Error("expected validation type")
	}
	var inner *Error
	if !stderrors.As(stderrors.Unwrap(err), &inner) || inner.Type != ErrorTypeColumnNotFound {
		t.Error("expected wrapped column_not_found cause")
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeColumnNotFound, "column \"id\" not found").
		WithDetail("column", "id").
		WithDetail("side", "left")

	if got := err.Details["column"]; got != "id" {
		t.Errorf("column detail = %v, want id", got)
	}
	if got := err.Details["side"]; got != "left" {
		t.Errorf("side detail = %v, want left", got)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ErrorTypeInternal, "x") != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(fmt.Errorf("disk full"), ErrorTypePermission, "write output")
	want := "permission: write output: disk full"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestTypeOf(t *testing.T) {
	if TypeOf(fmt.Errorf("plain")) != ErrorTypeInternal {
		t.Error("foreign errors report internal")
	}
	if TypeOf(Newf(ErrorTypeUnsupportedFormat, "bad ext %q", "zip")) != ErrorTypeUnsupportedFormat {
		t.Error("expected unsupported_format")
	}
}
