package a11y

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches any *ParseError.
	ErrParse = errors.New("document could not be parsed")

	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("session not found")

	// ErrRender matches any *RenderError.
	ErrRender = errors.New("page could not be rendered")
)

// ParseError reports bytes that are not a well-formed PDF. No session is
// created when analysis fails with it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return ErrParse.Error()
	}
	return fmt.Sprintf("%s: %v", ErrParse, e.Err)
}

func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ValidationError reports bad remediation input. The session is unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an unknown or expired session id.
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %q not found", e.SessionID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// RenderError reports an out-of-range page index or a rasterizer failure.
type RenderError struct {
	PageIndex int
	PageCount int
	Err       error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render page %d: %v", e.PageIndex, e.Err)
	}
	return fmt.Sprintf("page index %d out of range [0, %d)", e.PageIndex, e.PageCount)
}

func (e *RenderError) Unwrap() error        { return e.Err }
func (e *RenderError) Is(target error) bool { return target == ErrRender }

// OutOfRange reports whether the error is a page-range violation rather
// than a rasterizer failure.
func (e *RenderError) OutOfRange() bool { return e.Err == nil }
