// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package noiseconn

// Session is an established Noise transport-mode cipherstate pair, produced by
// a prior handshake that this package does not perform. Encrypt and Decrypt
// each operate on exactly one frame's worth of bytes and must not be retried
// after returning an error: a failure of either is permanent for that
// direction. Implementations own their own nonce bookkeeping.
//
// Encrypt seals plaintext into out (which must have capacity for
// len(plaintext) plus the AEAD tag) and returns the ciphertext length.
// Decrypt opens ciphertext into out (which must have capacity for
// len(ciphertext)) and returns the plaintext length.
//
// See the session package for a concrete implementation.
type Session interface {
	Encrypt(plaintext, out []byte) (int, error)
	Decrypt(ciphertext, out []byte) (int, error)
}

// sessionAdapter enforces the at-most-once-per-frame and sticky-permanent-
// failure rules around an external Session. Once a direction has failed, it
// never touches the underlying Session again for that direction.
type sessionAdapter struct {
	sess      Session
	encFailed bool
	decFailed bool
}

func newSessionAdapter(sess Session) *sessionAdapter {
	return &sessionAdapter{sess: sess}
}

func (a *sessionAdapter) encrypt(plaintext, out []byte) (int, error) {
	if a.encFailed {
		return 0, ErrInvalidData
	}
	if a.sess == nil {
		return 0, ErrInvalidArgument
	}
	n, err := a.sess.Encrypt(plaintext, out)
	if err != nil {
		a.encFailed = true
		return 0, ErrInvalidData
	}
	return n, nil
}

func (a *sessionAdapter) decrypt(ciphertext, out []byte) (int, error) {
	if a.decFailed {
		return 0, ErrInvalidData
	}
	if a.sess == nil {
		return 0, ErrInvalidArgument
	}
	n, err := a.sess.Decrypt(ciphertext, out)
	if err != nil {
		a.decFailed = true
		return 0, ErrInvalidData
	}
	return n, nil
}
