package storage

import (
	"testing"
	"time"

	"github.com/maaku/libwebcash/wcerr"
)

// memBackend is a trivial in-memory storage.Backend used to exercise the
// façade's logic in isolation from any real database engine.
func memBackend() (Backend, *map[string]uint64) {
	rows := make(map[string]uint64)
	return Backend{
		LogOpen:  func(url string) (interface{}, error) { return "log", nil },
		LogClose: func(h interface{}) {},
		DBOpen:   func(url string) (interface{}, error) { return "db", nil },
		DBClose:  func(h interface{}) {},
		AnyTerms: func(db interface{}) (bool, error) { return len(rows) > 0, nil },
		AllTerms: func(db interface{}) ([]StoredTerm, error) {
			out := make([]StoredTerm, 0, len(rows))
			for text, when := range rows {
				out = append(out, StoredTerm{Text: text, SecondsPastEpoch: when})
			}
			return out, nil
		},
		TermsAccepted: func(db interface{}, text string) (uint64, error) {
			return rows[text], nil
		},
		AcceptTerms: func(db interface{}, text string, now uint64) error {
			rows[text] = now
			return nil
		},
	}, &rows
}

func TestOpenRejectsMissingRequiredCallbacks(t *testing.T) {
	if _, err := Open(Backend{}, "log", "db"); err == nil {
		t.Fatal("expected error for missing log_open/db_open")
	}
}

func TestOpenClosesLogOnDBOpenFailure(t *testing.T) {
	logClosed := false
	b := Backend{
		LogOpen:  func(url string) (interface{}, error) { return "log", nil },
		LogClose: func(h interface{}) { logClosed = true },
		DBOpen:   func(url string) (interface{}, error) { return nil, wcerr.New(wcerr.DBOpenFailed, "boom") },
	}
	if _, err := Open(b, "log", "db"); err == nil {
		t.Fatal("expected db-open-failed")
	}
	if !logClosed {
		t.Fatal("expected log to be closed after db_open failure")
	}
}

func TestTermsLifecycle(t *testing.T) {
	b, _ := memBackend()
	s, err := Open(b, "log", "db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	have, err := s.HaveAcceptedTerms()
	if err != nil || have {
		t.Fatalf("expected no accepted terms yet, got have=%v err=%v", have, err)
	}

	accepted, _, err := s.AreTermsAccepted("foo")
	if err != nil || accepted {
		t.Fatalf("expected foo not yet accepted, got accepted=%v err=%v", accepted, err)
	}

	now := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	if err := s.AcceptTerms("foo", &now); err != nil {
		t.Fatalf("AcceptTerms: %v", err)
	}

	accepted, when, err := s.AreTermsAccepted("foo")
	if err != nil || !accepted {
		t.Fatalf("expected foo accepted, got accepted=%v err=%v", accepted, err)
	}
	if !when.Equal(now) {
		t.Fatalf("expected acceptance time %v, got %v", now, when)
	}

	have, err = s.HaveAcceptedTerms()
	if err != nil || !have {
		t.Fatalf("expected accepted terms to exist, got have=%v err=%v", have, err)
	}

	// Extending the accepted text by one byte must no longer read as accepted.
	accepted, _, err = s.AreTermsAccepted("fooo")
	if err != nil || accepted {
		t.Fatalf("expected mutated text not accepted, got accepted=%v err=%v", accepted, err)
	}
}

func TestAcceptTermsRejectsBeforeEpoch(t *testing.T) {
	b, _ := memBackend()
	s, err := Open(b, "log", "db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	before := EpochTime().Add(-time.Second)
	if err := s.AcceptTerms("foo", &before); !wcerr.Is(err, wcerr.InvalidArgument) {
		t.Fatalf("expected invalid-argument for pre-epoch time, got %v", err)
	}
}

func TestEnumerateTermsInsufficientCapacity(t *testing.T) {
	b, _ := memBackend()
	s, err := Open(b, "log", "db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	now := time.Now()
	for _, text := range []string{"a", "b", "c"} {
		if err := s.AcceptTerms(text, &now); err != nil {
			t.Fatalf("AcceptTerms(%s): %v", text, err)
		}
	}

	n, required, err := s.EnumerateTerms(make([]AcceptedTerm, 1))
	if !wcerr.Is(err, wcerr.InsufficientCapacity) {
		t.Fatalf("expected insufficient-capacity, got n=%d err=%v", n, err)
	}
	if required != 3 {
		t.Fatalf("expected required=3, got %d", required)
	}

	buf := make([]AcceptedTerm, required)
	n, required, err = s.EnumerateTerms(buf)
	if err != nil {
		t.Fatalf("EnumerateTerms: %v", err)
	}
	if n != 3 || required != 3 {
		t.Fatalf("expected n=required=3, got n=%d required=%d", n, required)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b, _ := memBackend()
	s, err := Open(b, "log", "db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
	if _, err := s.HaveAcceptedTerms(); !wcerr.Is(err, wcerr.DBClosed) {
		t.Fatalf("expected db-closed after Close, got %v", err)
	}
}
