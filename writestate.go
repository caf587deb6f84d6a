// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package noiseconn

// writePhase enumerates the states of the write side of Conn (§4.3). wEOF and
// wEncErr are terminal: once entered, every subsequent Write or Flush call
// returns the same outcome without touching the underlying stream again.
type writePhase uint8

const (
	wInit writePhase = iota
	wBufferData
	wWriteLen
	wWriteData
	wEOF
	wEncErr
)

func (p writePhase) String() string {
	switch p {
	case wInit:
		return "Init"
	case wBufferData:
		return "BufferData"
	case wWriteLen:
		return "WriteLen"
	case wWriteData:
		return "WriteData"
	case wEOF:
		return "Eof"
	case wEncErr:
		return "EncErr"
	default:
		return "Unknown"
	}
}

// writeState captures the entire progress of the write direction, analogous
// to readState.
type writeState struct {
	phase writePhase

	bufOff int // bytes accumulated into arena.writePlain[:bufOff]

	lenBuf lenState

	cipherLen int // ciphertext length of the frame being written
	writeOff  int // bytes already written from arena.writeCipher[:cipherLen]

	encErr error // error that put the write side into wEncErr, returned on every later call
}
