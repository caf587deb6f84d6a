// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package protocol

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Message{Status: StatusCantDialDst}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Status != StatusCantDialDst {
		t.Fatalf("got %v want %v", m.Status, StatusCantDialDst)
	}
}

func TestDecode_RejectsOversizeLength(t *testing.T) {
	var buf bytes.Buffer
	var lenBuf [10]byte
	n := putUvarintForTest(lenBuf[:], maxMessageLen+1)
	buf.Write(lenBuf[:n])
	if _, err := Decode(&buf); err != ErrMessageTooLarge {
		t.Fatalf("got %v want ErrMessageTooLarge", err)
	}
}

func putUvarintForTest(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

func TestIncomingRequest_FulfillSplicesBothDirections(t *testing.T) {
	sourceServer, sourceClient := net.Pipe()
	destServer, destClient := net.Pipe()
	defer sourceClient.Close()
	defer destClient.Close()

	req := NewIncomingRequest(sourceServer, "dest.example:1234")

	done := make(chan error, 1)
	go func() { done <- req.Fulfill(destServer) }()

	statusDone := make(chan struct{})
	go func() {
		m, err := Decode(sourceClient)
		if err != nil {
			t.Errorf("Decode status: %v", err)
		}
		if m.Status != StatusSuccess {
			t.Errorf("got status %v want Success", m.Status)
		}
		close(statusDone)
	}()
	select {
	case <-statusDone:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for status")
	}

	go func() { _, _ = sourceClient.Write([]byte("from source")) }()
	buf := make([]byte, len("from source"))
	if _, err := io.ReadFull(destClient, buf); err != nil {
		t.Fatalf("reading spliced data at dest: %v", err)
	}
	if string(buf) != "from source" {
		t.Fatalf("got %q", buf)
	}

	go func() { _, _ = destClient.Write([]byte("from dest")) }()
	back := make([]byte, len("from dest"))
	if _, err := io.ReadFull(sourceClient, back); err != nil {
		t.Fatalf("reading spliced data at source: %v", err)
	}
	if string(back) != "from dest" {
		t.Fatalf("got %q", back)
	}

	sourceClient.Close()
	destClient.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for Fulfill to finish")
	}
}

func TestIncomingRequest_DenyWritesFailureStatus(t *testing.T) {
	sourceServer, sourceClient := net.Pipe()
	defer sourceClient.Close()

	req := NewIncomingRequest(sourceServer, "dest.example:1234")
	done := make(chan error, 1)
	go func() { done <- req.Deny(StatusCantDialDst) }()

	m, err := Decode(sourceClient)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Status != StatusCantDialDst {
		t.Fatalf("got %v want CantDialDst", m.Status)
	}
	if err := <-done; err != nil {
		t.Fatalf("Deny: %v", err)
	}
}
