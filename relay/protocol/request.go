// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package protocol

import (
	"io"
	"sync"
)

// IncomingRequest is a request from a source peer asking the local node (the
// relay) to forward traffic to a destination. The caller obtains one by
// decoding a dial intent off an accepted connection from the source, then
// must call either Fulfill or Deny exactly once.
type IncomingRequest struct {
	source   io.ReadWriteCloser
	destAddr string

	once sync.Once
}

// NewIncomingRequest wraps source, the already-accepted connection from the
// requesting peer, together with the destination address it asked to reach.
func NewIncomingRequest(source io.ReadWriteCloser, destAddr string) *IncomingRequest {
	return &IncomingRequest{source: source, destAddr: destAddr}
}

// DestAddr reports the destination the source peer asked to be relayed to.
func (r *IncomingRequest) DestAddr() string { return r.destAddr }

// Fulfill accepts the request: it writes a success status to the source, then
// splices the source and destination streams together and returns once both
// copy directions have finished (see splice). dest is an already-connected
// stream to the destination.
func (r *IncomingRequest) Fulfill(dest io.ReadWriteCloser) error {
	var sendErr error
	r.once.Do(func() {
		sendErr = Encode(r.source, Message{Status: StatusSuccess})
	})
	if sendErr != nil {
		return sendErr
	}
	return splice(r.source, dest)
}

// Deny refuses the request, writing a failure status to the source.
func (r *IncomingRequest) Deny(reason Status) error {
	var sendErr error
	r.once.Do(func() {
		sendErr = Encode(r.source, Message{Status: reason})
	})
	return sendErr
}

// splice copies bytes bidirectionally between a and b until both directions
// have finished (one side reaching EOF or erroring ends that direction; the
// first non-nil error from either direction is returned once both finish).
func splice(a, b io.ReadWriteCloser) error {
	errc := make(chan error, 2)
	go func() {
		_, err := io.Copy(b, a)
		errc <- err
	}()
	go func() {
		_, err := io.Copy(a, b)
		errc <- err
	}()

	err1 := <-errc
	err2 := <-errc
	if err1 != nil {
		return err1
	}
	return err2
}
