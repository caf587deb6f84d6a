// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package protocol implements the relay request/response control protocol: a
// source peer asks a relay to forward its traffic to a destination, and the
// relay answers with a short status message before (if accepted) splicing the
// two streams together. This protocol is a collaborator of the noiseconn
// duplex adapter, not part of it: it runs before any noiseconn.Conn exists,
// to decide whether one should be established at all.
package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

// Status reports the outcome of a relay request. Numeric values are local to
// this package, not a wire-compatible encoding of any external schema.
type Status uint8

const (
	StatusSuccess          Status = 0
	StatusCantDialDst      Status = 1
	StatusMalformedMessage Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusCantDialDst:
		return "CantDialDst"
	case StatusMalformedMessage:
		return "MalformedMessage"
	default:
		return "Unknown"
	}
}

// ErrMessageTooLarge guards against a peer claiming an absurd payload length.
var ErrMessageTooLarge = errors.New("protocol: message too large")

// maxMessageLen bounds a status message's payload; the protocol only ever
// carries a single status byte today, but the varint-length framing leaves
// room to grow without a wire format change.
const maxMessageLen = 4096

// Message is a relay control message: currently just a status code.
type Message struct {
	Status Status
}

// Encode writes m as uvarint(len(payload)) || payload, where payload is
// presently always a single status byte. The varint is LEB128, the same
// encoding encoding/binary's Uvarint/PutUvarint already implement.
func Encode(w io.Writer, m Message) error {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], 1)
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	_, err := w.Write([]byte{byte(m.Status)})
	return err
}

// Decode reads a Message written by Encode.
func Decode(r io.Reader) (Message, error) {
	length, err := binary.ReadUvarint(byteReader{r})
	if err != nil {
		return Message{}, err
	}
	if length == 0 || length > maxMessageLen {
		return Message{}, ErrMessageTooLarge
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Message{}, err
	}
	return Message{Status: Status(payload[0])}, nil
}

// byteReader adapts an io.Reader to io.ByteReader, which binary.ReadUvarint
// requires and which most transports do not implement directly.
type byteReader struct{ io.Reader }

func (b byteReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(b.Reader, buf[:])
	return buf[0], err
}
