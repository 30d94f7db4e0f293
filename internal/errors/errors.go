package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a cardex error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"        // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"              // 404
	ErrFileTooLarge       ErrorCode = "FILE_TOO_LARGE"         // 413
	ErrUnsupportedFormat  ErrorCode = "UNSUPPORTED_FORMAT"     // 415
	ErrExtractionFailed   ErrorCode = "EXTRACTION_FAILED"      // 422
	ErrNoContentExtracted ErrorCode = "NO_CONTENT_EXTRACTED"   // 422
	ErrSectionAssembly    ErrorCode = "SECTION_ASSEMBLY_ERROR" // 422
	ErrCancelled          ErrorCode = "CANCELLED"              // 499
	ErrInternal           ErrorCode = "INTERNAL"               // 500
)

// CardexError represents a structured error with code, status, and details.
// Err holds the underlying cause, if any.
type CardexError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *CardexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CardexError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *CardexError {
	return &CardexError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a card cannot be found.
func NewNotFound(identifier string) *CardexError {
	return &CardexError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("card not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing input file.
func NewFileNotFound(path string) *CardexError {
	return &CardexError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewFileTooLarge creates a 413 error when an uploaded file exceeds the size limit.
func NewFileTooLarge(max, actual int64) *CardexError {
	return &CardexError{
		Code:    ErrFileTooLarge,
		Status:  413,
		Message: fmt.Sprintf("file exceeds maximum size: %d bytes (max %d)", actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewUnsupportedFormat creates a 415 error for a file extension with no extractor.
func NewUnsupportedFormat(ext string) *CardexError {
	return &CardexError{
		Code:    ErrUnsupportedFormat,
		Status:  415,
		Message: fmt.Sprintf("unsupported file type: %q", ext),
		Details: map[string]any{"extension": ext},
	}
}

// NewExtractionFailed creates a 422 error wrapping a format parser failure.
// The cause message is kept in the error text for diagnostics.
func NewExtractionFailed(format string, cause error) *CardexError {
	msg := fmt.Sprintf("%s extraction failed", format)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &CardexError{
		Code:    ErrExtractionFailed,
		Status:  422,
		Message: msg,
		Details: map[string]any{"format": format},
		Err:     cause,
	}
}

// NewNoContentExtracted creates a 422 error when a file yields zero usable cards.
func NewNoContentExtracted(file string) *CardexError {
	return &CardexError{
		Code:    ErrNoContentExtracted,
		Status:  422,
		Message: "no content could be extracted from the file",
		Details: map[string]any{"file": file},
	}
}

// NewSectionAssembly creates a 422 error for a single section or row that
// could not be turned into a card. These are collected, never returned from a
// whole-file operation.
func NewSectionAssembly(item string, cause error) *CardexError {
	msg := fmt.Sprintf("could not assemble %s", item)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &CardexError{
		Code:    ErrSectionAssembly,
		Status:  422,
		Message: msg,
		Details: map[string]any{"item": item},
		Err:     cause,
	}
}

// NewCancelled creates a 499 error for an operation stopped by its context.
func NewCancelled(op string, cause error) *CardexError {
	return &CardexError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
		Err:     cause,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *CardexError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &CardexError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if err, or anything it wraps, is a CardexError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *CardexError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// CodeOf returns the code of the first CardexError in err's chain, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var cErr *CardexError
	if stderrors.As(err, &cErr) {
		return cErr.Code
	}
	return ErrInternal
}
