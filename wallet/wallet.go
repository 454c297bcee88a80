// Package wallet implements the wallet context of spec §4.9: the
// composition root that owns exactly one storage, one server, and one UI
// façade, and drives the terms-of-service acquire-check-prompt-record
// protocol over them.
package wallet

import (
	"time"

	"github.com/maaku/libwebcash/serverconn"
	"github.com/maaku/libwebcash/storage"
	"github.com/maaku/libwebcash/walletui"
)

// Context composes exactly one of each façade, taking ownership of all
// three at construction (spec §3 "Wallet").
type Context struct {
	storage *storage.Storage
	server  *serverconn.Conn
	ui      *walletui.UI

	haveText   bool
	text       string
	accepted   bool
	acceptedAt time.Time
}

// New composes st, sv, and ui into a Context, which takes ownership of all
// three: Close will release them, and no other owner should release them
// independently (spec §5 "the wallet exclusively owns its three façades;
// handing a façade to two wallets is disallowed").
func New(st *storage.Storage, sv *serverconn.Conn, ui *walletui.UI) *Context {
	return &Context{storage: st, server: sv, ui: ui}
}

// Close tears the three façades down in reverse order of the composition
// list (UI, then server, then storage), attempting all three releases
// regardless of earlier failures, and returns the first error encountered
// (spec §4.9 "Release tears them down in reverse order and propagates the
// first error, but always attempts all three releases").
func (c *Context) Close() error {
	var firstErr error
	if err := c.ui.Shutdown(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.server.Disconnect(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.storage.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// EnsureTerms runs the four-step terms-of-service protocol (spec §4.9):
//
//  1. If no ToS text is cached, fetch it via the server façade and clear
//     the acceptance cache.
//  2. If not cached as accepted, query storage for acceptance of the
//     fetched text and populate the cache.
//  3. If still not accepted, prompt via the UI; on acceptance, stamp "now"
//     and best-effort persist — a persistence failure does not fail the
//     call, it just means the prompt recurs next time (spec §7).
//  4. Return the text, whether it is now accepted, and when (meaningful
//     only if accepted).
//
// Rejection is idempotent and not sticky: calling EnsureTerms again after
// a rejection re-prompts, since no "rejected" state is cached.
func (c *Context) EnsureTerms() (text string, accepted bool, when time.Time, err error) {
	if !c.haveText {
		t, err := c.server.GetTerms()
		if err != nil {
			return "", false, time.Time{}, err
		}
		c.text = t
		c.haveText = true
		c.accepted = false
	}

	if !c.accepted {
		accepted, when, err := c.storage.AreTermsAccepted(c.text)
		if err != nil {
			return "", false, time.Time{}, err
		}
		c.accepted = accepted
		c.acceptedAt = when
	}

	if !c.accepted {
		userAccepted, err := c.ui.ShowTerms(c.text)
		if err != nil {
			return "", false, time.Time{}, err
		}
		if userAccepted {
			now := time.Now().UTC()
			if persistErr := c.storage.AcceptTerms(c.text, &now); persistErr != nil {
				log.Warnf("terms accepted but persistence failed, will re-prompt: %v", persistErr)
			} else {
				c.accepted = true
				c.acceptedAt = now
			}
		}
	}

	return c.text, c.accepted, c.acceptedAt, nil
}
