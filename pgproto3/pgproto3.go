// Package pgproto3 implements the wire-level framing of the PostgreSQL
// frontend/backend protocol, version 3. It is the "native protocol
// library" the connection engine drives: it knows how to turn typed
// messages into length-prefixed, tagged byte sequences and back, but it
// has no notion of sockets, goroutines, or pipelining — that is the
// connection engine's job.
package pgproto3

import "fmt"

// Message is implemented by any value that can encode itself as a wire
// message and decode itself from one.
type Message interface {
	// Decode parses src, the message body (i.e. everything after the 1 byte
	// type tag and 4 byte length prefix), into the receiver.
	Decode(src []byte) error

	// Encode appends the wire representation of the receiver (tag, length
	// prefix, body) to dst and returns the extended slice.
	Encode(dst []byte) ([]byte, error)
}

// FrontendMessage is a message sent by the client.
type FrontendMessage interface {
	Message
	Frontend()
}

// BackendMessage is a message sent by the server.
type BackendMessage interface {
	Message
	Backend()
}

type invalidMessageLenErr struct {
	messageType string
	expectedLen int
	actualLen   int
}

func (e *invalidMessageLenErr) Error() string {
	return fmt.Sprintf("%s body must have length of %d, but it is %d", e.messageType, e.expectedLen, e.actualLen)
}

type invalidMessageFormatErr struct {
	messageType string
}

func (e *invalidMessageFormatErr) Error() string {
	return fmt.Sprintf("%s body is invalid", e.messageType)
}

// beginMessage appends the 1 byte type tag and reserves space for the 4
// byte length prefix, returning the extended buffer and the offset of the
// length prefix so it can be filled in by finishMessage once the body is
// known.
func beginMessage(dst []byte, tag byte) (buf []byte, sizePos int) {
	if tag != 0 {
		dst = append(dst, tag)
	}
	sizePos = len(dst)
	dst = append(dst, 0, 0, 0, 0)
	return dst, sizePos
}

// finishMessage writes the now-known body length into the reservation left
// by beginMessage.
func finishMessage(dst []byte, sizePos int) ([]byte, error) {
	size := len(dst) - sizePos
	dst[sizePos] = byte(size >> 24)
	dst[sizePos+1] = byte(size >> 16)
	dst[sizePos+2] = byte(size >> 8)
	dst[sizePos+3] = byte(size)
	return dst, nil
}
