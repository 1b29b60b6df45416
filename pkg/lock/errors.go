package lock

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/cell-lock/pkg/host"
)

// Code is the reason a lock rejected a transition.
//
// Values are stable, and double as the exit code of the lock program.
type Code int8

const (
	IndexOutOfBound Code = iota + 100
	ItemMissing
	LengthNotEnough
	Encoding
	WitnessMissInputType
	InvalidSignature
	PubkeyHashMismatch
)

func (c Code) String() string {
	switch c {
	case IndexOutOfBound:
		return "index out of bound"
	case ItemMissing:
		return "item missing"
	case LengthNotEnough:
		return "length not enough"
	case Encoding:
		return "encoding"
	case WitnessMissInputType:
		return "witness is missing input type"
	case InvalidSignature:
		return "invalid signature"
	case PubkeyHashMismatch:
		return "public key hash mismatch"
	default:
		return fmt.Sprintf("code(%d)", int8(c))
	}
}

// Error implements error, so that a bare Code can be matched with errors.Is.
func (c Code) Error() string {
	return fmt.Sprintf("lock: %s (%d)", c.String(), int8(c))
}

// Error is a rejection, carrying its Code and the underlying cause if any.
type Error struct {
	Code Code
	// Err is nil when the code says everything there is to say.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.Error()
	}
	return fmt.Sprintf("%s: %s", e.Code.Error(), e.Err)
}

// Unwrap exposes both the Code and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Err}
}

func reject(code Code, err error) error {
	return &Error{Code: code, Err: err}
}

// FromSysError maps a host fault to its Code.
//
// A fault code outside of the documented ones aborts with a panic: the
// environment misbehaved, and no decision taken past that point would be sound.
func FromSysError(err *host.SysError) Code {
	if !err.Known() {
		panic(fmt.Sprintf("unexpected sys error %d", err.Code))
	}
	switch err.Code {
	case host.CodeIndexOutOfBound:
		return IndexOutOfBound
	case host.CodeItemMissing:
		return ItemMissing
	case host.CodeLengthNotEnough:
		return LengthNotEnough
	default:
		return Encoding
	}
}

// fromHost converts an error returned by a host.Environment.
//
// Anything that isn't a *host.SysError is treated like an unknown fault.
func fromHost(err error) error {
	var sysErr *host.SysError
	if !errors.As(err, &sysErr) {
		panic(fmt.Sprintf("unexpected host error: %v", err))
	}
	return reject(FromSysError(sysErr), err)
}

// CodeOf extracts the Code carried by err.
func CodeOf(err error) (Code, bool) {
	var c Code
	if errors.As(err, &c) {
		return c, true
	}
	return 0, false
}

// ExitCode maps the result of a verification to a process exit status:
// 0 when authorized, the Code when rejected, and 1 for any other error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if c, ok := CodeOf(err); ok {
		return int(c)
	}
	return 1
}
