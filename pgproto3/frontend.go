package pgproto3

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Frontend is the client half of the wire protocol. It batches outbound
// FrontendMessages into a single write buffer (Send does not flush; call
// Flush once a pipeline's worth of messages has been queued) and decodes
// one BackendMessage at a time off the wire on Receive.
//
// A Frontend is not safe for concurrent use; the connection engine
// serializes access to it with its own synchronization.
type Frontend struct {
	cr *chunkReader
	w  io.Writer

	wbuf []byte

	authentication      Authentication
	backendKeyData      BackendKeyData
	bindComplete        BindComplete
	commandComplete     CommandComplete
	dataRow             DataRow
	emptyQueryResponse  EmptyQueryResponse
	errorResponse       ErrorResponse
	noData              NoData
	noticeResponse      NoticeResponse
	parameterStatus     ParameterStatus
	parseComplete       ParseComplete
	readyForQuery       ReadyForQuery
	rowDescription      RowDescription
}

// NewFrontend returns a Frontend that reads from r and writes to w. r and
// w are typically the two ends of the same net.Conn (or, in this client,
// an internal/nbconn.Conn).
func NewFrontend(r io.Reader, w io.Writer) *Frontend {
	return &Frontend{
		cr: newChunkReader(r, 8192),
		w:  w,
	}
}

// Send appends msg's wire encoding to the pending write buffer. It does
// not write to the underlying io.Writer; call Flush to do that.
func (f *Frontend) Send(msg FrontendMessage) error {
	var err error
	f.wbuf, err = msg.Encode(f.wbuf)
	return err
}

// SendStartup appends a StartupMessage. Unlike other FrontendMessages,
// StartupMessage precedes any type tag, so it cannot implement
// FrontendMessage without complicating the common encoding path; it gets
// its own Send method.
func (f *Frontend) SendStartup(msg *StartupMessage) error {
	var err error
	f.wbuf, err = msg.Encode(f.wbuf)
	return err
}

// SendPassword appends a PasswordMessage.
func (f *Frontend) SendPassword(msg *PasswordMessage) error {
	return f.Send(msg)
}

// Flush writes the pending buffer to the underlying io.Writer and resets
// it. Callers that batch multiple statements into one pipeline typically
// call Send repeatedly and Flush once, right before the final Sync.
func (f *Frontend) Flush() error {
	if len(f.wbuf) == 0 {
		return nil
	}
	n, err := f.w.Write(f.wbuf)
	if n == len(f.wbuf) {
		f.wbuf = f.wbuf[:0]
	} else if n > 0 {
		f.wbuf = f.wbuf[:copy(f.wbuf, f.wbuf[n:])]
	}
	return err
}

// Receive reads and decodes the next backend message. The returned
// BackendMessage is a pointer into a field of f and is only valid until
// the next call to Receive.
func (f *Frontend) Receive() (BackendMessage, error) {
	header, err := f.cr.Next(5)
	if err != nil {
		return nil, err
	}

	msgType := header[0]
	bodyLen := int(binary.BigEndian.Uint32(header[1:])) - 4
	if bodyLen < 0 {
		return nil, fmt.Errorf("invalid message body length: %d", bodyLen)
	}

	body, err := f.cr.Next(bodyLen)
	if err != nil {
		return nil, err
	}

	var msg BackendMessage
	switch msgType {
	case 'R':
		msg = &f.authentication
	case 'K':
		msg = &f.backendKeyData
	case '2':
		msg = &f.bindComplete
	case 'C':
		msg = &f.commandComplete
	case 'D':
		msg = &f.dataRow
	case 'I':
		msg = &f.emptyQueryResponse
	case 'E':
		msg = &f.errorResponse
	case 'n':
		msg = &f.noData
	case 'N':
		msg = &f.noticeResponse
	case 'S':
		msg = &f.parameterStatus
	case '1':
		msg = &f.parseComplete
	case 'Z':
		msg = &f.readyForQuery
	case 'T':
		msg = &f.rowDescription
	default:
		return nil, fmt.Errorf("unknown backend message type: %c", msgType)
	}

	if err := msg.Decode(body); err != nil {
		return nil, err
	}
	return msg, nil
}
