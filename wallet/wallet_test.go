package wallet

import (
	"testing"

	"github.com/maaku/libwebcash/internal/memfacade"
	"github.com/maaku/libwebcash/serverconn"
	"github.com/maaku/libwebcash/storage"
	"github.com/maaku/libwebcash/walletui"
)

// memStorageBackend is a minimal in-memory storage.Backend, enough to
// drive EnsureTerms without a real database.
func memStorageBackend() storage.Backend {
	rows := make(map[string]uint64)
	return storage.Backend{
		LogOpen:  func(url string) (interface{}, error) { return "log", nil },
		DBOpen:   func(url string) (interface{}, error) { return "db", nil },
		AnyTerms: func(db interface{}) (bool, error) { return len(rows) > 0, nil },
		AllTerms: func(db interface{}) ([]storage.StoredTerm, error) { return nil, nil },
		TermsAccepted: func(db interface{}, text string) (uint64, error) {
			return rows[text], nil
		},
		AcceptTerms: func(db interface{}, text string, now uint64) error {
			rows[text] = now
			return nil
		},
	}
}

func newTestContext(t *testing.T, termsText string, autoAccept bool) *Context {
	t.Helper()
	st, err := storage.Open(memStorageBackend(), "log", "db")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	sv, err := serverconn.Connect(memfacade.Server(termsText), "wss://example")
	if err != nil {
		t.Fatalf("serverconn.Connect: %v", err)
	}
	ui, err := walletui.Startup(memfacade.UI(autoAccept))
	if err != nil {
		t.Fatalf("walletui.Startup: %v", err)
	}
	return New(st, sv, ui)
}

// TestEnsureTermsAcceptFlow exercises spec §8 scenario 5: storage starts
// empty, ensure_terms fetches "foo" and prompts, the user accepts, and
// have_accepted_terms then reports true; mutating the stored text by one
// byte makes are_terms_accepted report false for the mutation.
func TestEnsureTermsAcceptFlow(t *testing.T) {
	ctx := newTestContext(t, "foo", true)
	defer ctx.Close()

	text, accepted, _, err := ctx.EnsureTerms()
	if err != nil {
		t.Fatalf("EnsureTerms: %v", err)
	}
	if text != "foo" || !accepted {
		t.Fatalf("expected (foo, accepted), got (%q, %v)", text, accepted)
	}

	have, err := ctx.storage.HaveAcceptedTerms()
	if err != nil || !have {
		t.Fatalf("expected HaveAcceptedTerms=true, got %v err=%v", have, err)
	}

	mutated, _, err := ctx.storage.AreTermsAccepted("fop")
	if err != nil || mutated {
		t.Fatalf("expected mutated text not accepted, got %v err=%v", mutated, err)
	}
}

// TestEnsureTermsRejectIsNotSticky checks that a rejection doesn't stick:
// calling EnsureTerms again re-prompts rather than returning a cached
// rejection.
func TestEnsureTermsRejectIsNotSticky(t *testing.T) {
	ctx := newTestContext(t, "bar", false)
	defer ctx.Close()

	_, accepted, _, err := ctx.EnsureTerms()
	if err != nil {
		t.Fatalf("EnsureTerms: %v", err)
	}
	if accepted {
		t.Fatal("expected rejection on first call")
	}

	_, accepted, _, err = ctx.EnsureTerms()
	if err != nil {
		t.Fatalf("second EnsureTerms: %v", err)
	}
	if accepted {
		t.Fatal("expected rejection to recur since the UI still rejects")
	}
}

// TestCloseAttemptsAllThreeReleases checks Close invokes shutdown,
// disconnect, and storage close even though none of them can fail in this
// backend, and that it's safe to call once.
func TestCloseAttemptsAllThreeReleases(t *testing.T) {
	ctx := newTestContext(t, "baz", true)
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if ctx.ui.State() != walletui.Shutdown {
		t.Fatalf("expected ui shutdown, got %v", ctx.ui.State())
	}
	if ctx.server.State() != serverconn.Disconnected {
		t.Fatalf("expected server disconnected, got %v", ctx.server.State())
	}
}
