package dryer

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownAccessor indicates Get was called with an undeclared name.
	ErrUnknownAccessor = errors.New("unknown accessor")

	// ErrUnknownAttribute indicates the decorated object has no such attribute.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrFormat indicates a value could not be formatted.
	ErrFormat = errors.New("format failed")

	// ErrAttachment indicates the attachment backend failed.
	ErrAttachment = errors.New("attachment failed")

	// ErrAttachmentsDisabled indicates an attachment shortcut was declared
	// without an attachment backend.
	ErrAttachmentsDisabled = errors.New("attachments disabled")

	// ErrNoBackend indicates storage-backed attachments were configured
	// without a URL generator.
	ErrNoBackend = errors.New("no attachment backend")

	// ErrExtension indicates an extension failed to install.
	ErrExtension = errors.New("extension failed")

	// ErrAccessor indicates a custom accessor failed.
	ErrAccessor = errors.New("accessor failed")

	// ErrRender indicates a decorator could not be rendered, either because an
	// accessor failed or because the codec failed to marshal the values.
	ErrRender = errors.New("render failed")
)

// AccessorError represents a failure while evaluating an accessor.
type AccessorError struct {
	Err       error  // Underlying sentinel error (ErrFormat, ErrAttachment, etc.)
	Accessor  string // Accessor that failed
	Attribute string // Attribute the accessor reads, if any
	Cause     error  // Original error
}

func (e *AccessorError) Error() string {
	subject := e.Accessor
	if e.Attribute != "" && e.Attribute != e.Accessor {
		subject = fmt.Sprintf("%s (attribute %s)", e.Accessor, e.Attribute)
	}
	if e.Cause != nil {
		return fmt.Sprintf("accessor %s: %v", subject, e.Cause)
	}
	return fmt.Sprintf("accessor %s: %s", subject, e.Err.Error())
}

func (e *AccessorError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// DefinitionError represents a declaration that could not be applied.
type DefinitionError struct {
	Err      error  // Underlying sentinel error (ErrAttachmentsDisabled, etc.)
	Accessor string // Accessor or declaration that failed
	Detail   string // Extra context
	Cause    error  // Original error, for extensions
}

func (e *DefinitionError) Error() string {
	msg := e.Err.Error()
	if e.Accessor != "" {
		msg = fmt.Sprintf("%s: %s", e.Accessor, msg)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *DefinitionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// CodecError represents a marshal failure during rendering.
type CodecError struct {
	Err         error  // Underlying sentinel error (ErrRender)
	ContentType string // Codec content type
	Cause       error  // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err.Error(), e.ContentType, e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// accessorSentinels are checked in order when classifying accessor failures.
var accessorSentinels = []error{
	ErrUnknownAttribute,
	ErrFormat,
	ErrAttachment,
}

// newAccessorError wraps an accessor failure, keeping existing AccessorErrors.
func newAccessorError(accessor, attribute string, cause error) error {
	var ae *AccessorError
	if errors.As(cause, &ae) {
		return cause
	}
	sentinel := ErrAccessor
	for _, s := range accessorSentinels {
		if errors.Is(cause, s) {
			sentinel = s
			break
		}
	}
	return &AccessorError{
		Err:       sentinel,
		Accessor:  accessor,
		Attribute: attribute,
		Cause:     cause,
	}
}

// newDefinitionError creates a DefinitionError for a rejected declaration.
func newDefinitionError(sentinel error, accessor, detail string, cause error) error {
	return &DefinitionError{
		Err:      sentinel,
		Accessor: accessor,
		Detail:   detail,
		Cause:    cause,
	}
}

// newCodecError creates a CodecError for render failures.
func newCodecError(contentType string, cause error) error {
	return &CodecError{
		Err:         ErrRender,
		ContentType: contentType,
		Cause:       cause,
	}
}
