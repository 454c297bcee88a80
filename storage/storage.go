// Package storage implements the storage façade of spec §4.6: a handle
// wrapping a host-provided callback table plus the log/db handles it opens,
// exposing terms-of-service queries over them. The concrete database
// engine and log-file format are explicitly out of scope for the core
// (spec §1) — see storage/boltstore for one concrete, testable callback
// implementation.
package storage

import (
	"math"
	"time"

	"github.com/maaku/libwebcash/wcerr"
)

// Epoch is WC_EPOCH, 2022-01-01T20:00:00Z expressed as POSIX seconds
// (spec §4.6 "Epoch", §6 "Epoch").
const Epoch int64 = 1641067200

// EpochTime returns the webcash epoch as a UTC time.Time.
func EpochTime() time.Time {
	return time.Unix(Epoch, 0).UTC()
}

// StoredTerm is one terms-of-service acceptance row in the backend's raw
// form: the accepted text and the acceptance time as raw seconds past
// Epoch (0 meaning "not accepted", per terms_accepted's contract).
type StoredTerm struct {
	Text             string
	SecondsPastEpoch uint64
}

// AcceptedTerm is one terms-of-service acceptance row converted to a UTC
// time.Time, as returned by EnumerateTerms.
type AcceptedTerm struct {
	Text       string
	AcceptedAt time.Time
}

// Backend is the pluggable callback table a host supplies (spec §4.6
// table). LogOpen and DBOpen are required; the ToS callbacks are required
// only if a wallet actually exercises terms-of-service acceptance — a
// Storage built over a Backend that leaves them nil simply returns
// invalid-argument the first time one is invoked, rather than failing at
// Open time, since spec §4.6 only validates "the two open callbacks" up
// front.
//
// Handles are modeled as interface{} (the Go analogue of the spec's opaque
// handle), exactly as the teacher's bolt-backed *DB wraps a library handle
// behind its own type.
type Backend struct {
	LogOpen  func(url string) (interface{}, error)
	LogClose func(handle interface{})
	DBOpen   func(url string) (interface{}, error)
	DBClose  func(handle interface{})

	AnyTerms      func(db interface{}) (bool, error)
	AllTerms      func(db interface{}) ([]StoredTerm, error)
	TermsAccepted func(db interface{}, text string) (uint64, error)
	AcceptTerms   func(db interface{}, text string, now uint64) error
}

// Storage is the façade wrapping a Backend and the log/db handles it has
// opened. The zero value is not usable; construct with Open.
type Storage struct {
	backend Backend
	logH    interface{}
	dbH     interface{}
	closed  bool
}

// Open validates the required log_open/db_open callbacks, opens the log
// then the database, and returns an owning façade (spec §4.6 "Open"). If
// the log opens but the database fails to, the log is closed before
// returning db-open-failed.
func Open(b Backend, logURL, dbURL string) (*Storage, error) {
	if b.LogOpen == nil || b.DBOpen == nil {
		return nil, wcerr.New(wcerr.InvalidArgument,
			"storage backend missing required log_open/db_open callback")
	}

	logH, err := b.LogOpen(logURL)
	if err != nil || logH == nil {
		return nil, wcerr.WrapErr(wcerr.LogOpenFailed, "log_open failed", err)
	}

	dbH, err := b.DBOpen(dbURL)
	if err != nil || dbH == nil {
		if b.LogClose != nil {
			b.LogClose(logH)
		}
		return nil, wcerr.WrapErr(wcerr.DBOpenFailed, "db_open failed", err)
	}

	log.Infof("storage opened: log=%s db=%s", logURL, dbURL)
	return &Storage{backend: b, logH: logH, dbH: dbH}, nil
}

// Close releases the database handle then the log handle, in that order.
// Close is idempotent; a second call is a no-op.
func (s *Storage) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.backend.DBClose != nil {
		s.backend.DBClose(s.dbH)
	}
	if s.backend.LogClose != nil {
		s.backend.LogClose(s.logH)
	}
	return nil
}

// HaveAcceptedTerms reports whether any ToS acceptance row exists at all
// (spec §4.6 "have_accepted_terms").
func (s *Storage) HaveAcceptedTerms() (bool, error) {
	if s.closed {
		return false, wcerr.New(wcerr.DBClosed, "storage closed")
	}
	if s.backend.AnyTerms == nil {
		return false, wcerr.New(wcerr.InvalidArgument, "backend missing any_terms callback")
	}
	return s.backend.AnyTerms(s.dbH)
}

// AreTermsAccepted reports whether the exact text has been accepted, and
// if so when (spec §4.6 "are_terms_accepted": "*accepted = (returned time
// != 0); if when supplied and accepted, add WC_EPOCH ... and convert").
func (s *Storage) AreTermsAccepted(text string) (accepted bool, when time.Time, err error) {
	if s.closed {
		return false, time.Time{}, wcerr.New(wcerr.DBClosed, "storage closed")
	}
	if s.backend.TermsAccepted == nil {
		return false, time.Time{}, wcerr.New(wcerr.InvalidArgument, "backend missing terms_accepted callback")
	}
	raw, err := s.backend.TermsAccepted(s.dbH, text)
	if err != nil {
		return false, time.Time{}, err
	}
	if raw == 0 {
		return false, time.Time{}, nil
	}
	t, err := secondsToTime(raw)
	if err != nil {
		return false, time.Time{}, err
	}
	return true, t, nil
}

// AcceptTerms resolves now to the current system time if nil, rejects
// timestamps preceding the webcash epoch, and records acceptance (spec
// §4.6 "accept_terms").
func (s *Storage) AcceptTerms(text string, now *time.Time) error {
	if s.closed {
		return wcerr.New(wcerr.DBClosed, "storage closed")
	}
	if s.backend.AcceptTerms == nil {
		return wcerr.New(wcerr.InvalidArgument, "backend missing accept_terms callback")
	}

	t := time.Now().UTC()
	if now != nil {
		t = now.UTC()
	}
	if t.Before(EpochTime()) {
		return wcerr.New(wcerr.InvalidArgument, "acceptance time precedes the webcash epoch")
	}

	raw := uint64(t.Unix() - Epoch)
	if err := s.backend.AcceptTerms(s.dbH, text, raw); err != nil {
		return err
	}
	log.Debugf("recorded terms acceptance at %s", t)
	return nil
}

// EnumerateTerms writes up to len(buf) accepted-terms rows into buf,
// converting each stored raw seconds-past-epoch timestamp to a UTC
// time.Time, and returns the count written. If buf is too small to hold
// every stored row, it writes nothing and returns wcerr.InsufficientCapacity
// along with the required length (spec §4.6 "enumerate_terms").
//
// The C original narrows DB-form records into UTC-form records in place,
// reusing a single buffer, because the DB form is provably no wider than
// the UTC form. That optimization has no purpose under Go's garbage
// collector, so this allocates the converted rows separately instead — the
// alternative spec §9 explicitly permits ("Implementations MAY separate the
// two buffers instead; if they do, document the extra allocation").
func (s *Storage) EnumerateTerms(buf []AcceptedTerm) (n int, required int, err error) {
	if s.closed {
		return 0, 0, wcerr.New(wcerr.DBClosed, "storage closed")
	}
	if s.backend.AllTerms == nil {
		return 0, 0, wcerr.New(wcerr.InvalidArgument, "backend missing all_terms callback")
	}

	rows, err := s.backend.AllTerms(s.dbH)
	if err != nil {
		return 0, 0, err
	}
	if len(buf) < len(rows) {
		return 0, len(rows), wcerr.New(wcerr.InsufficientCapacity, "buffer too small for terms records")
	}

	for i, row := range rows {
		t, err := secondsToTime(row.SecondsPastEpoch)
		if err != nil {
			return 0, 0, wcerr.New(wcerr.DBCorrupt, "stored acceptance time out of range")
		}
		buf[i] = AcceptedTerm{Text: row.Text, AcceptedAt: t}
	}
	return len(rows), len(rows), nil
}

func secondsToTime(raw uint64) (time.Time, error) {
	if raw > uint64(math.MaxInt64-Epoch) {
		return time.Time{}, wcerr.New(wcerr.DBCorrupt, "acceptance timestamp overflows")
	}
	return time.Unix(int64(raw)+Epoch, 0).UTC(), nil
}
