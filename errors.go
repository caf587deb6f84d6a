// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package noiseconn

import "errors"

var (
	// ErrInvalidData reports a sticky cryptographic failure: a frame that failed
	// to decrypt, or a plaintext that failed to encrypt. Once returned by Read or
	// Write, the affected direction returns it forever.
	ErrInvalidData = errors.New("noiseconn: invalid data")

	// ErrWriteZero reports that the underlying stream's Write returned a zero
	// byte count, meaning the sink refuses further bytes. Once returned, the
	// writer returns it forever.
	ErrWriteZero = errors.New("noiseconn: write to closed sink")

	// ErrInvalidArgument reports a nil underlying stream or a nil Session,
	// discovered lazily on first use rather than at construction time.
	ErrInvalidArgument = errors.New("noiseconn: invalid argument")

	// ErrNotImplemented is not returned by any operation of this package. The
	// relay/transport package reports its unimplemented operations with its own
	// transport.ErrNotImplemented, which is a distinct value.
	ErrNotImplemented = errors.New("noiseconn: not implemented")
)
