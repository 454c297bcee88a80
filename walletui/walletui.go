// Package walletui implements the UI façade of spec §4.8: a
// unstarted→running→shutdown state machine over a pluggable UI toolkit,
// exposing a single show_terms prompt. The concrete UI toolkit is out of
// scope for the core (spec §1).
package walletui

import (
	"github.com/maaku/libwebcash/wcerr"
)

// State is the UI façade's lifecycle state (spec §4.8).
type State int

const (
	Unstarted State = iota
	Running
	Shutdown
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Running:
		return "running"
	case Shutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Backend is the pluggable UI toolkit callback table. Startup is required;
// Shutdown is optional. ShowTerms MUST report whether the user accepted
// and return success even when they rejected — rejection is not itself an
// error (spec §4.8).
type Backend struct {
	Startup   func() (interface{}, error)
	Shutdown  func(handle interface{})
	ShowTerms func(handle interface{}, text string) (accepted bool, err error)
}

// UI is the UI façade itself: an owning wrapper around one toolkit handle
// and its state machine.
type UI struct {
	backend Backend
	handle  interface{}
	state   State
}

// Startup validates the required Startup callback, invokes it, and returns
// an owning UI in the Running state, or startup-failed.
func Startup(b Backend) (*UI, error) {
	if b.Startup == nil {
		return nil, wcerr.New(wcerr.InvalidArgument, "ui backend missing required startup callback")
	}
	h, err := b.Startup()
	if err != nil {
		return nil, wcerr.WrapErr(wcerr.StartupFailed, "startup failed", err)
	}
	return &UI{backend: b, handle: h, state: Running}, nil
}

// State reports the UI's current lifecycle state.
func (u *UI) State() State { return u.state }

// ShowTerms prompts the user with text and reports whether they accepted.
// A non-nil error means the UI itself failed to present the prompt, not
// that the user rejected it (spec §4.8).
func (u *UI) ShowTerms(text string) (bool, error) {
	if u.state != Running {
		return false, wcerr.New(wcerr.Headless, "ui is not running")
	}
	if u.backend.ShowTerms == nil {
		return false, wcerr.New(wcerr.InvalidArgument, "backend missing show_terms callback")
	}
	return u.backend.ShowTerms(u.handle, text)
}

// Shutdown transitions to the terminal Shutdown state, invoking the
// optional Shutdown callback. Shutdown is idempotent.
func (u *UI) Shutdown() error {
	if u.state == Shutdown {
		return nil
	}
	if u.backend.Shutdown != nil {
		u.backend.Shutdown(u.handle)
	}
	u.state = Shutdown
	return nil
}
