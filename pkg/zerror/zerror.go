// Package zerror defines coded errors that keep their classification while
// being wrapped through the service layers.
package zerror

import (
	"errors"
	"fmt"
)

// ZError is a coded error. Two ZErrors are equal under errors.Is when their
// codes match, so predefined values can be compared after WithMsg or
// WrapParent.
type ZError struct {
	parent error
	status Status
	code   string
	msg    string
}

// NewZError builds a ZError. code is an upper snake case identifier such as
// INSUFFICIENT_STOCK.
func NewZError(parent error, status Status, code, msg string) ZError {
	return ZError{
		parent: parent,
		status: status,
		code:   code,
		msg:    msg,
	}
}

func (e ZError) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.parent)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// WrapParent attaches an underlying error to a predefined ZError.
func (e ZError) WrapParent(parent error) ZError {
	if parent == nil {
		return e
	}
	e.parent = parent
	return e
}

// WithMsg returns a copy carrying a more specific message.
func (e ZError) WithMsg(msg string) ZError {
	e.msg = msg
	return e
}

// WithMsgf is WithMsg with formatting.
func (e ZError) WithMsgf(format string, args ...any) ZError {
	return e.WithMsg(fmt.Sprintf(format, args...))
}

func (e ZError) Unwrap() error {
	return e.parent
}

func (e ZError) Is(target error) bool {
	t, ok := target.(ZError)
	if !ok {
		return false
	}
	return t.code == e.code
}

func (e ZError) Status() Status { return e.status }
func (e ZError) Code() string   { return e.code }
func (e ZError) Msg() string    { return e.msg }
func (e ZError) Parent() error  { return e.parent }

// From returns the outermost ZError in err's chain.
func From(err error) (ZError, bool) {
	var zErr ZError
	if errors.As(err, &zErr) {
		return zErr, true
	}
	return ZError{}, false
}

// StatusOf returns the status of the ZError in err's chain, or StatusUnknown.
func StatusOf(err error) Status {
	if zErr, ok := From(err); ok {
		return zErr.status
	}
	return StatusUnknown
}

func NewUnauthorized(code, msg string) ZError {
	return NewZError(nil, StatusUnauthorized, code, msg)
}

func NewNotFound(code, msg string) ZError {
	return NewZError(nil, StatusNotFound, code, msg)
}

func NewUnprocessableEntity(code, msg string) ZError {
	return NewZError(nil, StatusUnprocessableEntity, code, msg)
}

func NewConflict(code, msg string) ZError {
	return NewZError(nil, StatusConflict, code, msg)
}

func NewBadRequest(code, msg string) ZError {
	return NewZError(nil, StatusBadRequest, code, msg)
}

func NewValidationFailed(code, msg string) ZError {
	return NewZError(nil, StatusValidationFailed, code, msg)
}
