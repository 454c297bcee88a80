// Package serverconn implements the server façade of spec §4.7: a
// connect→connected→disconnected state machine over a pluggable connector,
// exposing a single get_terms query. The concrete HTTPS client to the
// server is out of scope for the core (spec §1) and left to the Connect
// callback.
package serverconn

import (
	"github.com/maaku/libwebcash/wcerr"
)

// State is the server façade's connection state (spec §4.7).
type State int

const (
	Unconnected State = iota
	Connected
	Disconnected
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Backend is the pluggable connector a host supplies. Connect is required;
// Disconnect is optional. GetTerms returns the server's current
// terms-of-service text.
type Backend struct {
	Connect    func(url string) (interface{}, error)
	Disconnect func(conn interface{})
	GetTerms   func(conn interface{}) (string, error)
}

// Conn is the server façade itself: an owning wrapper around one connector
// handle and its state machine.
type Conn struct {
	backend Backend
	handle  interface{}
	state   State
}

// Connect validates the required Connect callback, invokes it, and returns
// an owning Conn in the Connected state, or connect-failed.
func Connect(b Backend, url string) (*Conn, error) {
	if b.Connect == nil {
		return nil, wcerr.New(wcerr.InvalidArgument, "server backend missing required connect callback")
	}
	h, err := b.Connect(url)
	if err != nil || h == nil {
		return nil, wcerr.WrapErr(wcerr.ConnectFailed, "connect failed", err)
	}
	log.Infof("server connection established to %s", url)
	return &Conn{backend: b, handle: h, state: Connected}, nil
}

// State reports the connection's current state.
func (c *Conn) State() State { return c.state }

// GetTerms returns the server's current terms-of-service text as a plain
// string (spec §4.7 "get_terms" — the byte-counted-string wrapper the spec
// describes collapses to a native Go string).
func (c *Conn) GetTerms() (string, error) {
	if c.state != Connected {
		return "", wcerr.New(wcerr.NotConnected, "server connection is not connected")
	}
	if c.backend.GetTerms == nil {
		return "", wcerr.New(wcerr.InvalidArgument, "backend missing get_terms callback")
	}
	return c.backend.GetTerms(c.handle)
}

// Disconnect transitions to the terminal Disconnected state, invoking the
// optional Disconnect callback. Disconnect is idempotent.
func (c *Conn) Disconnect() error {
	if c.state == Disconnected {
		return nil
	}
	if c.backend.Disconnect != nil {
		c.backend.Disconnect(c.handle)
	}
	c.state = Disconnected
	return nil
}
