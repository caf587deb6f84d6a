// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package noiseconn turns a non-blocking duplex byte-stream transport into a
// framed, encrypted duplex byte-stream: every application byte is encrypted
// under a previously negotiated Noise transport-mode session and carried as a
// sequence of length-prefixed ciphertext frames.
//
// The package does not perform the Noise handshake, does not negotiate or
// rekey anything, and does not multiplex. It consumes an already-established
// Session and an already-connected stream and adapts one non-blocking duplex
// byte-stream contract to another.
package noiseconn

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock means "no further progress without waiting". It is the same
// sentinel the underlying stream is expected to return from Read/Write, and
// Conn simply forwards it when it cannot make further progress either.
var ErrWouldBlock = iox.ErrWouldBlock

// Conn adapts an underlying non-blocking io.ReadWriteCloser to a framed,
// encrypted duplex byte-stream. It is not safe for concurrent Read calls, nor
// for concurrent Write/Flush calls, but one reader goroutine and one
// writer/flusher goroutine may operate on the same Conn concurrently: the two
// directions never touch each other's state or arena slices.
type Conn struct {
	stream io.ReadWriteCloser
	sess   *sessionAdapter
	arena  *arena

	rs readState
	ws writeState

	retryDelay time.Duration
}

// NewConn constructs a Conn over stream using sess for encryption/decryption.
// Both state machines start in their initial state.
func NewConn(stream io.ReadWriteCloser, sess Session, opts ...Option) *Conn {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}

	c := &Conn{
		stream:     stream,
		sess:       newSessionAdapter(sess),
		arena:      newArena(),
		retryDelay: o.RetryDelay,
	}
	c.rs.phase = rInit
	c.ws.phase = wInit
	return c
}

// String reports the current state of both directions for debugging.
func (c *Conn) String() string {
	return fmt.Sprintf("noiseconn.Conn{read:%s write:%s}", c.rs.phase, c.ws.phase)
}

func (c *Conn) waitOnceOnWouldBlock() bool {
	if c.retryDelay < 0 {
		return false
	}
	if c.retryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(c.retryDelay)
	return true
}

func (c *Conn) readOnce(p []byte) (n int, err error) {
	if c.stream == nil {
		return 0, ErrInvalidArgument
	}
	for {
		n, err = c.stream.Read(p)
		if err != ErrWouldBlock {
			return n, err
		}
		if !c.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

func (c *Conn) writeOnce(p []byte) (n int, err error) {
	if c.stream == nil {
		return 0, ErrInvalidArgument
	}
	for {
		n, err = c.stream.Write(p)
		if err != ErrWouldBlock {
			return n, err
		}
		if !c.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

// Read implements the read state machine of §4.2. A single call may cross
// several internal phases (absorbing empty frames, decrypting a newly
// completed frame) before it returns data, ErrWouldBlock, or a terminal
// error.
func (c *Conn) Read(dst []byte) (int, error) {
	for {
		switch c.rs.phase {
		case rInit:
			c.rs.resetForNextFrame()

		case rReadLen:
			n, err := c.rs.lenBuf.read(c.readOnce)
			if err != nil {
				switch err {
				case io.EOF:
					c.rs.phase = rEOFClean
					return 0, nil
				case io.ErrUnexpectedEOF:
					c.rs.phase = rEOFUnexpected
					return 0, io.ErrUnexpectedEOF
				default:
					return 0, err // ErrWouldBlock or a transparent transport error
				}
			}
			if n == 0 {
				// Empty frame: absorbed without yielding to the caller.
				c.rs.resetForNextFrame()
				continue
			}
			c.rs.dataLen = n
			c.rs.dataOff = 0
			c.rs.phase = rReadData

		case rReadData:
			need := c.rs.dataLen
			buf := c.arena.readCipher[:need]
			for c.rs.dataOff < need {
				rn, rerr := c.readOnce(buf[c.rs.dataOff:need])
				c.rs.dataOff += rn
				if c.rs.dataOff == need {
					break
				}
				if rerr == io.EOF || (rn == 0 && rerr == nil) {
					c.rs.phase = rEOFUnexpected
					return 0, io.ErrUnexpectedEOF
				}
				if rerr != nil {
					return 0, rerr
				}
			}
			plainLen, derr := c.sess.decrypt(buf, c.arena.readPlain[:need])
			if derr != nil {
				c.rs.phase = rDecErr
				c.rs.decErr = derr
				return 0, derr
			}
			c.rs.plainLen = plainLen
			c.rs.copyOff = 0
			c.rs.phase = rCopyData

		case rCopyData:
			n := c.rs.plainLen - c.rs.copyOff
			if n > len(dst) {
				n = len(dst)
			}
			copy(dst[:n], c.arena.readPlain[c.rs.copyOff:c.rs.copyOff+n])
			c.rs.copyOff += n
			if c.rs.copyOff == c.rs.plainLen {
				c.rs.resetForNextFrame()
			}
			return n, nil

		case rEOFClean:
			return 0, nil

		case rEOFUnexpected:
			return 0, io.ErrUnexpectedEOF

		case rDecErr:
			return 0, c.rs.decErr
		}
	}
}

// writeFrame drives a pending length+ciphertext write to completion. It must
// only be called while ws.phase is wWriteLen or wWriteData. On success it
// leaves ws.phase at wInit.
func (c *Conn) writeFrame() error {
	if c.ws.phase == wWriteLen {
		done, err := c.ws.lenBuf.write(c.writeOnce)
		if err != nil {
			return err
		}
		if !done {
			c.ws.phase = wEOF
			return ErrWriteZero
		}
		c.ws.writeOff = 0
		c.ws.phase = wWriteData
	}

	need := c.ws.cipherLen
	for c.ws.writeOff < need {
		wn, werr := c.writeOnce(c.arena.writeCipher[c.ws.writeOff:need])
		c.ws.writeOff += wn
		if c.ws.writeOff == need {
			break
		}
		if wn == 0 && werr == nil {
			c.ws.phase = wEOF
			return ErrWriteZero
		}
		if werr != nil {
			return werr
		}
	}
	c.ws.phase = wInit
	c.ws.bufOff = 0
	return nil
}

// Write implements the write state machine of §4.3. It reports the number of
// source bytes accepted into the internal accumulator; those bytes are not
// guaranteed to be on the wire until Flush returns nil.
func (c *Conn) Write(src []byte) (int, error) {
	for {
		switch c.ws.phase {
		case wInit:
			c.ws.phase = wBufferData
			c.ws.bufOff = 0

		case wBufferData:
			n := MaxPlain - c.ws.bufOff
			if n > len(src) {
				n = len(src)
			}
			copy(c.arena.writePlain[c.ws.bufOff:c.ws.bufOff+n], src[:n])
			c.ws.bufOff += n
			if c.ws.bufOff == MaxPlain {
				cipherLen, eerr := c.sess.encrypt(c.arena.writePlain[:MaxPlain], c.arena.writeCipher[:cap(c.arena.writeCipher)])
				if eerr != nil {
					c.ws.phase = wEncErr
					c.ws.encErr = eerr
					return 0, eerr
				}
				c.ws.cipherLen = cipherLen
				c.ws.lenBuf.setLength(cipherLen)
				c.ws.phase = wWriteLen
			}
			return n, nil

		case wWriteLen, wWriteData:
			if err := c.writeFrame(); err != nil {
				return 0, err
			}
			// phase is now wInit; loop around to buffer src in this same call.

		case wEOF:
			return 0, ErrWriteZero

		case wEncErr:
			return 0, c.ws.encErr
		}
	}
}

// Flush drains whatever plaintext is currently staged, encrypting it (even if
// empty, producing a tag-only frame) and writing the resulting frame to the
// underlying stream. Flush on an empty, idle writer is a no-op.
func (c *Conn) Flush() error {
	switch c.ws.phase {
	case wInit:
		return nil

	case wBufferData:
		n := c.ws.bufOff
		cipherLen, eerr := c.sess.encrypt(c.arena.writePlain[:n], c.arena.writeCipher[:cap(c.arena.writeCipher)])
		if eerr != nil {
			c.ws.phase = wEncErr
			c.ws.encErr = eerr
			return eerr
		}
		c.ws.cipherLen = cipherLen
		c.ws.lenBuf.setLength(cipherLen)
		c.ws.phase = wWriteLen
		return c.writeFrame()

	case wWriteLen, wWriteData:
		return c.writeFrame()

	case wEOF:
		return ErrWriteZero

	case wEncErr:
		return c.ws.encErr

	default:
		return nil
	}
}

// Close forwards to the underlying stream's Close, regardless of either
// direction's state. It does not implicitly flush; callers that need ordered
// delivery must call Flush first.
func (c *Conn) Close() error {
	return c.stream.Close()
}
