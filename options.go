// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package noiseconn

import "time"

// Options configures the cooperative-blocking retry policy applied when the
// underlying stream's Read or Write reports ErrWouldBlock. It has no effect on
// the adapter's framing or cryptographic semantics.
type Options struct {
	// RetryDelay controls how Conn handles iox.ErrWouldBlock from the
	// underlying stream:
	//   - negative: nonblock, return ErrWouldBlock immediately (default)
	//   - zero: yield (runtime.Gosched) and retry
	//   - positive: sleep for the duration and retry
	RetryDelay time.Duration
}

var defaultOptions = Options{
	RetryDelay: -1, // default: nonblock
}

type Option func(*Options)

// WithRetryDelay sets the retry/wait policy used when the underlying stream
// returns iox.ErrWouldBlock.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithBlock enables cooperative blocking (yield-and-retry) on iox.ErrWouldBlock.
func WithBlock() Option {
	return func(o *Options) { o.RetryDelay = 0 }
}

// WithNonblock forces non-blocking behavior (return iox.ErrWouldBlock immediately).
// This is the default.
func WithNonblock() Option {
	return func(o *Options) { o.RetryDelay = -1 }
}
