package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"testing"
)

func TestCardexError_Error(t *testing.T) {
	err := &CardexError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "card not found",
	}

	expected := "NOT_FOUND: card not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("path is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "path is required" {
		t.Errorf("Message = %q, want %q", err.Message, "path is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01HX")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Details["identifier"] != "01HX" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01HX")
	}
}

func TestNewUnsupportedFormat(t *testing.T) {
	err := NewUnsupportedFormat(".exe")

	if err.Code != ErrUnsupportedFormat {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnsupportedFormat)
	}
	if err.Status != 415 {
		t.Errorf("Status = %d, want 415", err.Status)
	}
	if err.Details["extension"] != ".exe" {
		t.Errorf("Details[extension] = %v, want %q", err.Details["extension"], ".exe")
	}
}

func TestNewExtractionFailed_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("bad xref table")
	err := NewExtractionFailed("pdf", cause)

	if err.Code != ErrExtractionFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrExtractionFailed)
	}
	if err.Message != "pdf extraction failed: bad xref table" {
		t.Errorf("Message = %q", err.Message)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
}

func TestNewFileTooLarge(t *testing.T) {
	err := NewFileTooLarge(10*1024*1024, 15*1024*1024)

	if err.Status != 413 {
		t.Errorf("Status = %d, want 413", err.Status)
	}
	if err.Details["max_bytes"] != int64(10*1024*1024) {
		t.Errorf("Details[max_bytes] = %v", err.Details["max_bytes"])
	}
}

func TestNewNoContentExtracted(t *testing.T) {
	err := NewNoContentExtracted("empty.txt")
	if err.Code != ErrNoContentExtracted || err.Status != 422 {
		t.Errorf("got %s/%d", err.Code, err.Status)
	}
}

func TestNewSectionAssembly(t *testing.T) {
	err := NewSectionAssembly("row 4", io.ErrUnexpectedEOF)
	if err.Code != ErrSectionAssembly {
		t.Errorf("Code = %q", err.Code)
	}
	if err.Details["item"] != "row 4" {
		t.Errorf("Details[item] = %v", err.Details["item"])
	}
}

func TestNewCancelled_WrapsContextError(t *testing.T) {
	err := NewCancelled("export", context.Canceled)

	if err.Code != ErrCancelled || err.Status != 499 {
		t.Errorf("Code/Status = %s/%d, want CANCELLED/499", err.Code, err.Status)
	}
	if err.Message != "export cancelled" {
		t.Errorf("Message = %q", err.Message)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Error("errors.Is should reach context.Canceled")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	base := NewUnsupportedFormat(".exe")
	wrapped := fmt.Errorf("upload a.exe: %w", base)

	if !Is(base, ErrUnsupportedFormat) {
		t.Error("Is should match direct error")
	}
	if !Is(wrapped, ErrUnsupportedFormat) {
		t.Error("Is should match wrapped error")
	}
	if Is(wrapped, ErrNotFound) {
		t.Error("Is should not match other codes")
	}
	if Is(io.EOF, ErrInternal) {
		t.Error("Is should be false for non-cardex errors")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", NewNotFound("a"))); got != ErrNotFound {
		t.Errorf("CodeOf = %q", got)
	}
	if got := CodeOf(io.EOF); got != ErrInternal {
		t.Errorf("CodeOf(plain) = %q, want INTERNAL", got)
	}
}
