// Package mining implements the 8-way parallel finalizer and the
// precomputed nonce tables used by external mining loops (spec §4.4/§4.5).
// Mining loop orchestration itself — picking nonces, checking difficulty —
// is out of scope (spec §1 non-goals); this package provides only the hot
// inner primitive and its supporting constant tables.
package mining

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/maaku/libwebcash/internal/sha256ms"
)

// LaneCount is the number of SHA-256 digests completed per Finalize8 call.
const LaneCount = 8

// NonceTailLen is the width in bytes of each of the three nonce byte
// groups (nonce1, each nonce2 lane, final) that together make up the
// trailing 12 bytes distinguishing one lane's block from another.
const NonceTailLen = 4

// Finalize8 completes eight SHA-256 digests that all share the compression
// state after bytesAbsorbed bytes have been fed in, differing only in a
// trailing 12-byte region per lane: nonce1 ‖ nonce2[lane] ‖ final (spec
// §4.4). state must be the chaining state at a compression-block boundary
// (bytesAbsorbed a multiple of 64): the 12 bytes, the 0x80 pad byte and the
// bit length together form one final block per lane.
//
// This is a scalar implementation: each lane runs its own single-block
// sha256ms.Compress call rather than a true SIMD 8-way compression, since
// Go's standard toolchain exposes no portable SIMD intrinsics. The output
// is bit-identical to a true 8-way (or scalar) SHA-256 over the equivalent
// absorbed prefix, which is the only contract callers depend on.
func Finalize8(state sha256ms.State, bytesAbsorbed uint64, nonce1 [NonceTailLen]byte, nonce2 [LaneCount][NonceTailLen]byte, final [NonceTailLen]byte) [LaneCount][sha256ms.Size]byte {
	var out [LaneCount][sha256ms.Size]byte
	totalBits := (bytesAbsorbed + 12) * 8

	for lane := 0; lane < LaneCount; lane++ {
		var block [sha256ms.BlockSize]byte
		copy(block[0:4], nonce1[:])
		copy(block[4:8], nonce2[lane][:])
		copy(block[8:12], final[:])
		block[12] = 0x80
		binary.BigEndian.PutUint64(block[56:64], totalBits)

		laneState := state
		sha256ms.Compress(&laneState, &block)
		out[lane] = laneState.Bytes()
	}
	return out
}

// Nonces is the concatenation of base64 encodings of the ASCII decimal
// triples "000", "001", …, "999", each exactly 4 base64 characters (spec
// §4.5). The encoded triple for index i starts at byte offset 4*i, letting
// a mining loop splice a ready-made base64 nonce fragment directly into an
// already-encoded claim code without re-encoding.
var Nonces [4000]byte

// Final is the base64 encoding of the single byte '}' (spec §4.5).
var Final [NonceTailLen]byte

func init() {
	for i := 0; i < 1000; i++ {
		triple := fmt.Sprintf("%03d", i)
		base64.StdEncoding.Encode(Nonces[i*4:i*4+4], []byte(triple))
	}
	base64.StdEncoding.Encode(Final[:], []byte("}"))
}
