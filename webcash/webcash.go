// Package webcash defines the core value types of the scheme: Secret, the
// (amount, serial) pair that authenticates ownership by hash-preimage, and
// Public, its one-way derived (amount, hash) counterpart (spec §3/§4.2/
// §4.10).
package webcash

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/fastsha256"

	"github.com/maaku/libwebcash/amount"
	"github.com/maaku/libwebcash/wcerr"
)

// Hash is a 32-byte SHA-256 digest, modeled on the fixed-width hash types
// used throughout the teacher's stack (e.g. chainhash.Hash): a plain
// [32]byte with a lowercase-hex String().
type Hash [32]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// HashFromHex decodes a 64-character hex string into a Hash. Uppercase hex
// digits are accepted and reported as noncanonical (spec §4.2); any other
// malformed input is an invalid-argument error.
func HashFromHex(s string) (Hash, bool, error) {
	var h Hash
	if len(s) != 64 {
		return h, false, wcerr.New(wcerr.InvalidArgument, "hash must be 64 hex characters")
	}
	noncanonical := strings.ToLower(s) != s
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return h, false, wcerr.New(wcerr.InvalidArgument, "invalid hex in hash")
	}
	copy(h[:], b)
	return h, noncanonical, nil
}

// Secret is a (amount, serial) pair: the private authenticator for a unit of
// value. A Secret is valid (spec §3) iff Amount is strictly positive, Serial
// is non-empty, and Serial contains no embedded NUL byte.
type Secret struct {
	Amount    amount.Amount
	Serial    []byte
	destroyed bool
}

// defaultSerialCap is the preallocated capacity for NewSecret's empty
// serial, matching the C API's "reasonable preallocated capacity (≈64
// bytes)" (spec §4.10 constructor 1).
const defaultSerialCap = 64

// NewSecret allocates a fresh secret with an empty serial and a zero
// amount. Go has no user-visible allocation-failure path (the runtime
// panics on true out-of-memory), so unlike the C API this constructor
// cannot return wcerr.OutOfMemory; it is kept non-erroring for that reason.
func NewSecret() *Secret {
	return &Secret{Serial: make([]byte, 0, defaultSerialCap)}
}

// NewSecretFromString copies amt and s into a new Secret ("from C string" in
// spec §4.10 constructor 2 — Go strings are already byte-counted, so there
// is no separate NUL-terminated form to distinguish).
func NewSecretFromString(amt amount.Amount, s string) *Secret {
	return NewSecretFromBytesCopy(amt, []byte(s))
}

// NewSecretFromBytesMove takes ownership of *serial, nils the caller's
// slice, and returns a new Secret wrapping it directly without copying
// (spec §4.10 constructor 3 — "from bstring, move"). It validates the
// slice's structure but cannot fail on allocation, matching the spec's
// "cannot fail on allocation" note for this constructor.
func NewSecretFromBytesMove(amt amount.Amount, serial *[]byte) (*Secret, error) {
	if serial == nil {
		return nil, wcerr.New(wcerr.InvalidArgument, "nil serial pointer")
	}
	s := &Secret{Amount: amt, Serial: *serial}
	*serial = nil
	return s, nil
}

// NewSecretFromBytesCopy deep-copies serial into a new Secret (spec §4.10
// constructor 4 — "from bstring, copy").
func NewSecretFromBytesCopy(amt amount.Amount, serial []byte) *Secret {
	cp := make([]byte, len(serial))
	copy(cp, serial)
	return &Secret{Amount: amt, Serial: cp}
}

// Valid reports whether s satisfies the validity invariant of spec §3:
// strictly positive amount, non-empty serial, no embedded NUL byte.
func (s *Secret) Valid() bool {
	if s == nil || s.destroyed {
		return false
	}
	if s.Amount <= 0 || len(s.Serial) == 0 {
		return false
	}
	for _, b := range s.Serial {
		if b == 0 {
			return false
		}
	}
	return true
}

// Destroy scrubs and releases the serial buffer and zeros the amount.
// Destroying an already-destroyed secret returns invalid-argument.
func (s *Secret) Destroy() error {
	if s == nil {
		return wcerr.New(wcerr.InvalidArgument, "nil secret")
	}
	if s.destroyed {
		return wcerr.New(wcerr.InvalidArgument, "secret already destroyed")
	}
	scrub(s.Serial)
	s.Serial = nil
	s.Amount = 0
	s.destroyed = true
	return nil
}

// scrubSink defeats dead-store elimination on the final write to a scrubbed
// buffer (spec §9's "must defeat the compiler" requirement). It is never
// read for its value, only for its side effect of forcing the preceding
// writes to be observable.
//
//go:noinline
func scrubSink(b []byte) byte {
	var acc byte
	for _, v := range b {
		acc ^= v
	}
	return acc
}

// scrub overwrites b with zeros in a way the compiler cannot optimize away,
// following the same defeat-dead-store-elimination requirement the teacher
// applies to private key material.
func scrub(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	scrubSink(b)
}

// Public is the one-way derived (amount, hash) counterpart of a Secret. It
// is valid (spec §3) iff Amount is strictly positive.
type Public struct {
	Amount amount.Amount
	Hash   Hash
}

// Valid reports whether p satisfies the validity invariant of spec §3.
func (p *Public) Valid() bool {
	return p != nil && p.Amount > 0
}

// PublicFromSecret derives the Public counterpart of s by hashing its
// serial with plain SHA-256 and copying the amount across unchanged (spec
// §4.2 "Secret→Public"). It performs no validity enforcement beyond that —
// matching the spec's own note that validity is a separate predicate from
// construction.
func PublicFromSecret(s *Secret) *Public {
	h := fastsha256.Sum256(s.Serial)
	return &Public{Amount: s.Amount, Hash: Hash(h)}
}
