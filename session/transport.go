// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package session provides a concrete noiseconn.Session implementation: two
// independent ChaCha20-Poly1305 AEAD directions, each with its own monotonic
// nonce counter, constructed from raw keys derived from a completed Noise
// handshake.
package session

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrNonceExhausted reports that a direction's 64-bit nonce counter
	// wrapped around. At one frame per nonce this cannot happen before the
	// heat death of the universe, but the counter is still checked.
	ErrNonceExhausted = errors.New("session: nonce counter exhausted")

	// ErrKeySize reports a send or receive key that is not exactly
	// chacha20poly1305.KeySize bytes.
	ErrKeySize = errors.New("session: key must be chacha20poly1305.KeySize bytes")
)

// Transport is a noiseconn.Session backed directly by
// golang.org/x/crypto/chacha20poly1305, keyed with the raw symmetric keys a
// completed Noise handshake produces (one CipherState per direction). It does
// not perform the handshake itself.
type Transport struct {
	send      cipherAEAD
	recv      cipherAEAD
	sendNonce uint64
	recvNonce uint64
}

// cipherAEAD is the minimal surface Transport needs from crypto/cipher.AEAD,
// named locally to avoid importing crypto/cipher just for the interface name.
type cipherAEAD interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	NonceSize() int
	Overhead() int
}

// NewTransport builds a Transport from two independent 32-byte keys, one for
// each direction. sendKey and recvKey are typically the two halves of a
// Noise transport-mode key split (e.g. the two CipherState.UnsafeKey()
// outputs from a completed handshake, possibly passed through an HKDF
// expansion to bind them to a direction label).
func NewTransport(sendKey, recvKey []byte) (*Transport, error) {
	if len(sendKey) != chacha20poly1305.KeySize || len(recvKey) != chacha20poly1305.KeySize {
		return nil, ErrKeySize
	}
	send, err := chacha20poly1305.New(sendKey)
	if err != nil {
		return nil, err
	}
	recv, err := chacha20poly1305.New(recvKey)
	if err != nil {
		return nil, err
	}
	return &Transport{send: send, recv: recv}, nil
}

func nonceFor(counter uint64) [chacha20poly1305.NonceSize]byte {
	var nonce [chacha20poly1305.NonceSize]byte
	binary.BigEndian.PutUint64(nonce[chacha20poly1305.NonceSize-8:], counter)
	return nonce
}

// Encrypt seals plaintext into out and returns the ciphertext length. Each
// call advances the send nonce counter; a failure (nonce exhaustion) is
// permanent, matching noiseconn.Session's contract.
func (t *Transport) Encrypt(plaintext, out []byte) (int, error) {
	t.sendNonce++
	if t.sendNonce == 0 {
		t.sendNonce-- // stay exhausted: every later call fails the same way
		return 0, ErrNonceExhausted
	}
	nonce := nonceFor(t.sendNonce)
	ct := t.send.Seal(out[:0], nonce[:], plaintext, nil)
	return len(ct), nil
}

// Decrypt opens ciphertext into out and returns the plaintext length. Each
// call advances the receive nonce counter in lockstep with the peer's send
// counter; the two sides must agree on frame order (which the duplex adapter
// guarantees, since frames are processed strictly in arrival order).
func (t *Transport) Decrypt(ciphertext, out []byte) (int, error) {
	t.recvNonce++
	if t.recvNonce == 0 {
		t.recvNonce-- // stay exhausted: every later call fails the same way
		return 0, ErrNonceExhausted
	}
	nonce := nonceFor(t.recvNonce)
	pt, err := t.recv.Open(out[:0], nonce[:], ciphertext, nil)
	if err != nil {
		return 0, err
	}
	return len(pt), nil
}
