// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package noiseconn

import (
	"encoding/binary"
	"io"
)

// lenState is the resumable two-byte big-endian frame length codec (§4.1). It
// is driven through a plain byte-pump function rather than io.Reader/io.Writer
// directly, so the same type serves both directions of Conn.
type lenState struct {
	buf [2]byte
	off int
}

// read accumulates exactly two bytes via rd and decodes them big-endian. On a
// partial result (including ErrWouldBlock) the interim offset is preserved in
// s for the next call.
func (s *lenState) read(rd func([]byte) (int, error)) (n int, err error) {
	for s.off < 2 {
		rn, re := rd(s.buf[s.off:2])
		s.off += rn
		if s.off == 2 {
			break // last chunk may arrive together with io.EOF; that is still success
		}
		if re == io.EOF || (rn == 0 && re == nil) {
			if s.off == 0 {
				return 0, io.EOF
			}
			return 0, io.ErrUnexpectedEOF
		}
		if re != nil {
			return 0, re
		}
	}
	return int(binary.BigEndian.Uint16(s.buf[:])), nil
}

// write drains the remaining buf[off:2] via wr. A zero-byte write with no
// error reports (false, nil); the caller maps that to ErrWriteZero.
func (s *lenState) write(wr func([]byte) (int, error)) (done bool, err error) {
	for s.off < 2 {
		wn, we := wr(s.buf[s.off:2])
		s.off += wn
		if s.off == 2 {
			break
		}
		if wn == 0 {
			if we != nil {
				return false, we
			}
			return false, nil
		}
		if we != nil {
			return false, we
		}
	}
	return true, nil
}

func (s *lenState) reset() {
	s.off = 0
}

func (s *lenState) setLength(v int) {
	binary.BigEndian.PutUint16(s.buf[:], uint16(v))
	s.off = 0
}
