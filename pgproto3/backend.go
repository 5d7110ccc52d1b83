package pgproto3

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Backend is the server half of the wire protocol. It exists in this
// client-only library so tests (and anything proxying the protocol) can
// stand up an in-process fake PostgreSQL backend without a real server.
type Backend struct {
	cr *chunkReader
	w  io.Writer

	startupMessage  StartupMessage
	bind            Bind
	describe        Describe
	execute         Execute
	parse           Parse
	passwordMessage PasswordMessage
	sync            Sync
	terminate       Terminate
}

// NewBackend returns a Backend that reads from r and writes to w.
func NewBackend(r io.Reader, w io.Writer) *Backend {
	return &Backend{
		cr: newChunkReader(r, 8192),
		w:  w,
	}
}

// Send writes msg's wire encoding immediately; unlike Frontend.Send,
// Backend does not batch, since a fake server has no equivalent of a
// pipelined round trip to economize on syscalls for.
func (b *Backend) Send(msg BackendMessage) error {
	buf, err := msg.Encode(nil)
	if err != nil {
		return err
	}
	_, err = b.w.Write(buf)
	return err
}

// ReceiveStartupMessage reads the one frontend message with no type
// tag. It must be called exactly once, before any call to Receive.
func (b *Backend) ReceiveStartupMessage() (*StartupMessage, error) {
	header, err := b.cr.Next(4)
	if err != nil {
		return nil, err
	}
	msgSize := int(binary.BigEndian.Uint32(header)) - 4

	body, err := b.cr.Next(msgSize)
	if err != nil {
		return nil, err
	}

	if err := b.startupMessage.Decode(body); err != nil {
		return nil, err
	}
	return &b.startupMessage, nil
}

// Receive reads and decodes the next frontend message. The returned
// FrontendMessage aliases a field of b and is only valid until the next
// call to Receive.
func (b *Backend) Receive() (FrontendMessage, error) {
	header, err := b.cr.Next(5)
	if err != nil {
		return nil, err
	}

	msgType := header[0]
	bodyLen := int(binary.BigEndian.Uint32(header[1:])) - 4
	if bodyLen < 0 {
		return nil, fmt.Errorf("invalid message body length: %d", bodyLen)
	}

	body, err := b.cr.Next(bodyLen)
	if err != nil {
		return nil, err
	}

	var msg FrontendMessage
	switch msgType {
	case 'B':
		msg = &b.bind
	case 'D':
		msg = &b.describe
	case 'E':
		msg = &b.execute
	case 'P':
		msg = &b.parse
	case 'p':
		msg = &b.passwordMessage
	case 'S':
		msg = &b.sync
	case 'X':
		msg = &b.terminate
	default:
		return nil, fmt.Errorf("unknown frontend message type: %c", msgType)
	}

	if err := msg.Decode(body); err != nil {
		return nil, err
	}
	return msg, nil
}
