// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"
	"testing"
	"time"
)

func TestWrapper_DialForwardsToBehaviourAndReturnsResult(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)

	wantErr := errors.New("boom")
	b := NewBehaviour(func(addr string) (*Conn, error) {
		if addr == "good.example:1" {
			return &Conn{}, nil
		}
		return nil, wantErr
	}, stop)
	w := NewWrapper(b)

	if c, err := w.Dial("good.example:1"); err != nil || c == nil {
		t.Fatalf("got (%v,%v) want a Conn and nil error", c, err)
	}
	if _, err := w.Dial("bad.example:1"); err != wantErr {
		t.Fatalf("got %v want %v", err, wantErr)
	}
}

func TestListener_AcceptIsNotImplemented(t *testing.T) {
	l := NewListener("relay.example:1")
	if _, err := l.Accept(); err != ErrNotImplemented {
		t.Fatalf("got %v want ErrNotImplemented", err)
	}
}

func TestConn_IOIsNotImplemented(t *testing.T) {
	c := &Conn{}
	if _, err := c.Read(nil); err != ErrNotImplemented {
		t.Fatalf("Read: got %v want ErrNotImplemented", err)
	}
	if _, err := c.Write(nil); err != ErrNotImplemented {
		t.Fatalf("Write: got %v want ErrNotImplemented", err)
	}
	if err := c.Flush(); err != ErrNotImplemented {
		t.Fatalf("Flush: got %v want ErrNotImplemented", err)
	}
	if err := c.Close(); err != ErrNotImplemented {
		t.Fatalf("Close: got %v want ErrNotImplemented", err)
	}
}

func TestBehaviour_StopsOnSignal(t *testing.T) {
	stop := make(chan struct{})
	calls := make(chan struct{}, 1)
	b := NewBehaviour(func(addr string) (*Conn, error) {
		calls <- struct{}{}
		return &Conn{}, nil
	}, stop)
	close(stop)
	time.Sleep(10 * time.Millisecond) // let the behaviour goroutine observe stop

	// A request sent after stop must not be serviced.
	go func() {
		b.requests <- dialRequest{addr: "late.example:1", result: make(chan dialResult, 1)}
	}()

	select {
	case <-calls:
		t.Fatal("behaviour should not have been asked to dial")
	case <-time.After(50 * time.Millisecond):
	}
}
