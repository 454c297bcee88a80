// Package derive computes deterministic serials from a (root, chaincode,
// depth) derivation address using the tagged SHA-256 construction of spec
// §3/§4.3/§6. It is the sole consumer of the process-wide tagged midstate
// and, together with package mining, one of the two places outside of
// internal/sha256ms that reason about raw compression blocks.
package derive

import (
	"encoding/binary"
	"encoding/hex"
	"sync"

	"github.com/btcsuite/fastsha256"

	"github.com/maaku/libwebcash/internal/sha256ms"
)

// Tag is the domain-separation tag baked into the process-wide midstate
// (spec §3 "Tagged midstate", §6 "Tagged hash construction"). It is 15
// ASCII bytes with no trailing NUL.
const Tag = "webcashwalletv1"

var (
	initOnce     sync.Once
	tagMidstate  sha256ms.State
	tagByteCount uint64
)

// Init computes the process-wide tagged midstate exactly once. It is safe
// to call from multiple goroutines; subsequent calls are no-ops. Every
// exported derivation function calls Init implicitly, so library users
// never need to call it directly — it is exposed for callers who want to
// pay its (negligible) one-time cost eagerly, e.g. during startup.
func Init() {
	initOnce.Do(func() {
		t := fastsha256.Sum256([]byte(Tag))
		var block [sha256ms.BlockSize]byte
		copy(block[:32], t[:])
		copy(block[32:], t[:])

		tagMidstate = sha256ms.IV()
		sha256ms.Compress(&tagMidstate, &block)
		tagByteCount = sha256ms.BlockSize
	})
}

// buildBlock lays out the 48-byte derivation input block, root || be64
// chaincode || be64 depth, followed by SHA-256 padding terminating the
// message at tagByteCount+48 bytes (spec §4.3, §6 "Derivation input
// block"). The padded tail always fits in the remaining 16 bytes of a
// single 64-byte block because 48+1(0x80)+7(zero pad)+8(length) == 64.
func buildBlock(root [32]byte, chaincode, depth uint64) [sha256ms.BlockSize]byte {
	var block [sha256ms.BlockSize]byte
	copy(block[0:32], root[:])
	binary.BigEndian.PutUint64(block[32:40], chaincode)
	binary.BigEndian.PutUint64(block[40:48], depth)
	block[48] = 0x80
	totalBits := (tagByteCount + 48) * 8
	binary.BigEndian.PutUint64(block[56:64], totalBits)
	return block
}

// digestOne runs one compression of the tagged midstate over the
// derivation block for (root, chaincode, depth) and returns the raw
// 32-byte digest. The block (which contains the caller's root material)
// is scrubbed before returning, per spec §4.3's "any block buffers
// containing the caller's root material must be explicitly scrubbed".
func digestOne(root [32]byte, chaincode, depth uint64) [32]byte {
	Init()
	block := buildBlock(root, chaincode, depth)
	state := tagMidstate
	sha256ms.Compress(&state, &block)
	digest := state.Bytes()
	scrubBlock(&block)
	return digest
}

// scrubBlock zeros a derivation block. The noinline pragma plus the
// xor-accumulate readback keep the compiler from eliding the zeroing as a
// dead store, matching the scrub discipline used for secret material
// elsewhere in the module (see webcash.scrub).
//
//go:noinline
func scrubBlock(b *[sha256ms.BlockSize]byte) {
	for i := range b {
		b[i] = 0
	}
	var acc byte
	for _, v := range b {
		acc ^= v
	}
	scrubSink = acc
}

// scrubSink is written by scrubBlock purely to force the zeroing writes to
// be observable; its value is never read.
var scrubSink byte

// DeriveOne derives the serial at (root, chaincode, depth) and returns it
// as a 64-character lowercase hex string (spec §4.3 "Derive-one").
func DeriveOne(root [32]byte, chaincode, depth uint64) string {
	d := digestOne(root, chaincode, depth)
	return hex.EncodeToString(d[:])
}

// DeriveMany derives count consecutive serials starting at start_depth and
// returns them concatenated as count*64 ASCII hex bytes, in ascending
// depth order (spec §4.3 "Derive-many"). It never fails; count == 0
// returns an empty, non-nil slice.
//
// Per spec §4.3's batching guidance, work is grouped into a short first
// pass of ((count-1) mod 8)+1 items followed by zero or more full passes
// of eight, mirroring how a SIMD backend would schedule the 8-way
// finalizer in package mining; each lane here is computed independently
// since the underlying compression primitive is scalar.
func DeriveMany(root [32]byte, chaincode, startDepth, count uint64) []byte {
	Init()
	out := make([]byte, 0, count*64)
	if count == 0 {
		return out
	}

	first := ((count - 1) % 8) + 1
	depth := startDepth
	remaining := count

	for remaining > 0 {
		batch := first
		if batch > remaining {
			batch = remaining
		}
		for i := uint64(0); i < batch; i++ {
			d := digestOne(root, chaincode, depth)
			hexBuf := make([]byte, 64)
			hex.Encode(hexBuf, d[:])
			out = append(out, hexBuf...)
			depth++
		}
		remaining -= batch
		first = 8
	}

	return out
}
