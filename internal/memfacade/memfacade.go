// Package memfacade provides in-memory serverconn.Backend and
// walletui.Backend implementations, used by wallet's own tests and by
// cmd/webcashctl's "terms" demo to exercise the full ToS protocol without a
// real server connection or UI toolkit — analogous to the mock link the
// teacher's switch tests use in place of a real peer connection.
package memfacade

import (
	"github.com/maaku/libwebcash/serverconn"
	"github.com/maaku/libwebcash/walletui"
)

// Server returns a serverconn.Backend whose Connect always succeeds and
// whose GetTerms always returns text.
func Server(text string) serverconn.Backend {
	return serverconn.Backend{
		Connect:    func(url string) (interface{}, error) { return url, nil },
		Disconnect: func(h interface{}) {},
		GetTerms:   func(h interface{}) (string, error) { return text, nil },
	}
}

// UI returns a walletui.Backend whose ShowTerms always answers with
// autoAccept, simulating a user who always accepts (or always rejects)
// whatever terms they are shown.
func UI(autoAccept bool) walletui.Backend {
	return walletui.Backend{
		Startup:  func() (interface{}, error) { return "memui", nil },
		Shutdown: func(h interface{}) {},
		ShowTerms: func(h interface{}, text string) (bool, error) {
			return autoAccept, nil
		},
	}
}
