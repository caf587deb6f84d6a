// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package noiseconn

import (
	"io"
	"testing"

	"code.hybscloud.com/iox"
)

func TestLenState_ReadAccumulatesAcrossCalls(t *testing.T) {
	var s lenState
	chunks := [][]byte{{0x01}, {0x02}}
	i := 0
	rd := func(p []byte) (int, error) {
		n := copy(p, chunks[i])
		i++
		return n, nil
	}

	n, err := s.read(rd)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 0x0102 {
		t.Fatalf("got %d want %d", n, 0x0102)
	}
}

func TestLenState_ReadCleanEOFAtZeroOffset(t *testing.T) {
	var s lenState
	rd := func(p []byte) (int, error) { return 0, io.EOF }
	if _, err := s.read(rd); err != io.EOF {
		t.Fatalf("got %v want io.EOF", err)
	}
}

func TestLenState_ReadUnexpectedEOFMidLength(t *testing.T) {
	var s lenState
	calls := 0
	rd := func(p []byte) (int, error) {
		calls++
		if calls == 1 {
			return copy(p, []byte{0x05}), nil
		}
		return 0, io.EOF
	}
	if _, err := s.read(rd); err != io.ErrUnexpectedEOF {
		t.Fatalf("got %v want io.ErrUnexpectedEOF", err)
	}
}

func TestLenState_ReadPreservesOffsetAcrossWouldBlock(t *testing.T) {
	var s lenState
	calls := 0
	rd := func(p []byte) (int, error) {
		calls++
		switch calls {
		case 1:
			return copy(p, []byte{0x00}), nil
		case 2:
			return 0, iox.ErrWouldBlock
		default:
			return copy(p, []byte{0x2A}), nil
		}
	}

	if _, err := s.read(rd); err != iox.ErrWouldBlock {
		t.Fatalf("got %v want ErrWouldBlock", err)
	}
	if s.off != 1 {
		t.Fatalf("offset not preserved: got %d want 1", s.off)
	}
	n, err := s.read(rd)
	if err != nil {
		t.Fatalf("resume read: %v", err)
	}
	if n != 0x2A {
		t.Fatalf("got %d want %d", n, 0x2A)
	}
}

func TestLenState_WriteZeroReportsNotDone(t *testing.T) {
	var s lenState
	s.setLength(7)
	wr := func(p []byte) (int, error) { return 0, nil }
	done, err := s.write(wr)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if done {
		t.Fatalf("expected done=false on zero-byte write")
	}
}

func TestLenState_WriteCompletesAcrossCalls(t *testing.T) {
	var s lenState
	s.setLength(300)
	var out []byte
	wr := func(p []byte) (int, error) {
		out = append(out, p[0])
		return 1, nil
	}
	for i := 0; i < 4; i++ {
		done, err := s.write(wr)
		if err != nil {
			t.Fatalf("write: %v", err)
		}
		if done {
			break
		}
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 bytes written one at a time, got %d", len(out))
	}
	if int(out[0])<<8|int(out[1]) != 300 {
		t.Fatalf("wrong encoded length: %v", out)
	}
}
