// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package noiseconn

// readPhase enumerates the states of the read side of Conn (§4.2). rEOFClean,
// rEOFUnexpected and rDecErr are terminal: once entered, every subsequent Read
// call returns the same outcome without touching the underlying stream again.
type readPhase uint8

const (
	rInit readPhase = iota
	rReadLen
	rReadData
	rCopyData
	rEOFClean
	rEOFUnexpected
	rDecErr
)

func (p readPhase) String() string {
	switch p {
	case rInit:
		return "Init"
	case rReadLen:
		return "ReadLen"
	case rReadData:
		return "ReadData"
	case rCopyData:
		return "CopyData"
	case rEOFClean:
		return "Eof(clean)"
	case rEOFUnexpected:
		return "Eof(unexpected)"
	case rDecErr:
		return "DecErr"
	default:
		return "Unknown"
	}
}

// readState captures the entire progress of the read direction. No part of
// its progress lives on any call stack: a suspension point (an ErrWouldBlock
// return) is always fully described by this value together with the arena's
// readCipher/readPlain contents.
type readState struct {
	phase readPhase

	lenBuf lenState

	dataLen int // ciphertext length expected for the frame in flight
	dataOff int // bytes accumulated into arena.readCipher[:dataLen]

	plainLen int // decrypted length of the frame in flight
	copyOff  int // bytes already delivered to the caller from arena.readPlain[:plainLen]

	decErr error // error that put the read side into rDecErr, returned on every later call
}

func (rs *readState) resetForNextFrame() {
	rs.phase = rReadLen
	rs.lenBuf.reset()
}
