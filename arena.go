// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package noiseconn

const (
	// MaxFrame is the largest ciphertext length a single frame may carry. The
	// wire length prefix is a two-byte big-endian unsigned integer, so this is
	// also the hard protocol ceiling.
	MaxFrame = 1<<16 - 1

	// MaxPlain is the largest plaintext payload a single outgoing frame may
	// carry. MaxFrame must be large enough to hold MaxPlain bytes plus an AEAD
	// authentication tag.
	MaxPlain = 1 << 14
)

// arena is the single fixed-size allocation backing one Conn. It is split once,
// at construction, into four non-overlapping regions. Nothing outside Conn ever
// holds a reference to any of these slices.
type arena struct {
	mem []byte

	readCipher  []byte // [MaxFrame]: staging for one inbound ciphertext frame
	readPlain   []byte // [MaxFrame]: staging for that frame's decrypted plaintext
	writePlain  []byte // [MaxPlain]: accumulator for outbound plaintext
	writeCipher []byte // [2*MaxPlain]: staging for the encrypted frame to write
}

func newArena() *arena {
	mem := make([]byte, 2*MaxFrame+3*MaxPlain)
	a := &arena{mem: mem}

	off := 0
	a.readCipher = mem[off : off+MaxFrame]
	off += MaxFrame
	a.readPlain = mem[off : off+MaxFrame]
	off += MaxFrame
	a.writePlain = mem[off : off+MaxPlain]
	off += MaxPlain
	a.writeCipher = mem[off : off+2*MaxPlain]

	return a
}
