// Package wcerr defines the stable error-code enumeration shared by every
// libwebcash façade boundary (amount/claim-code parsing, derivation,
// storage, server, UI, and wallet context).
package wcerr

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Code is a stable error classification exposed at every façade boundary.
// The numeric ordering is part of the public contract: existing values
// never change meaning or position.
type Code int

const (
	// Success is not itself returned as an error; it's listed here only
	// to keep the enumeration in the same order as spec §7.
	Success Code = iota
	InvalidArgument
	InsufficientCapacity
	OutOfMemory
	Overflow
	DBClosed
	DBOpenFailed
	DBCorrupt
	LogOpenFailed
	NotConnected
	ConnectFailed
	Headless
	StartupFailed
	Unknown
)

func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case InvalidArgument:
		return "invalid-argument"
	case InsufficientCapacity:
		return "insufficient-capacity"
	case OutOfMemory:
		return "out-of-memory"
	case Overflow:
		return "overflow"
	case DBClosed:
		return "db-closed"
	case DBOpenFailed:
		return "db-open-failed"
	case DBCorrupt:
		return "db-corrupt"
	case LogOpenFailed:
		return "log-open-failed"
	case NotConnected:
		return "not-connected"
	case ConnectFailed:
		return "connect-failed"
	case Headless:
		return "headless"
	case StartupFailed:
		return "startup-failed"
	default:
		return "unknown"
	}
}

// Error is the error type returned across every façade boundary. It carries
// a stable Code plus a human-readable message.
type Error struct {
	Code Code
	Msg  string
	err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap lets errors.Is/errors.As see through to a captured stack trace,
// when one was recorded via Wrap.
func (e *Error) Unwrap() error { return e.err }

// New builds a sentinel *Error without capturing a stack trace. Used on hot
// paths (codec parsing, derivation) where the cost of a stack capture isn't
// worth paying for conditions that are expected and common.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap builds an *Error that captures a stack trace via go-errors/errors, for
// façade/wallet-context failures a caller will want to debug later.
func Wrap(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg, err: goerrors.Errorf("%s", msg)}
}

// Wrapf is Wrap with fmt.Sprintf-style formatting.
func Wrapf(code Code, format string, args ...interface{}) *Error {
	return Wrap(code, fmt.Sprintf(format, args...))
}

// WrapErr builds an *Error with a captured stack trace whose Unwrap chain
// reaches cause, for façade boundaries that return a host callback's error
// verbatim (spec §7 "façade errors ... are returned verbatim") while still
// attaching a stable Code. cause may be nil.
func WrapErr(code Code, msg string, cause error) *Error {
	if cause == nil {
		return Wrap(code, msg)
	}
	return &Error{Code: code, Msg: msg, err: goerrors.WrapPrefix(cause, msg, 0)}
}

// Is reports whether err is a *Error with the given Code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
