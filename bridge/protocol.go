package bridge

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// maxMessageLen guards against a corrupt or hostile length prefix causing an
// unbounded allocation.
const maxMessageLen = 64 << 20 // 64 MiB

// SendMessage writes msg to w as a msgType tag, a uint32 length prefix, and
// the JSON-encoded payload, all big-endian. This generalizes the corpus's
// own client/server wire protocol from a raw *net.UnixConn (which also
// passed a tty file descriptor out-of-band via SCM_RIGHTS) to any
// io.Writer, since a parser/store bridge has no file descriptor to
// delegate.
func SendMessage(w io.Writer, msg Message) error {
	t := msgTypeForMessage(msg)
	if t == invalidMsgType {
		return errors.Errorf("bridge: cannot send message of unknown type %T", msg)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrapf(err, "json.Marshal")
	}
	if len(payload) > maxMessageLen {
		return errors.Errorf("bridge: message payload too large (%d bytes)", len(payload))
	}

	var header [6]byte
	binary.BigEndian.PutUint16(header[0:2], uint16(t))
	binary.BigEndian.PutUint32(header[2:6], uint32(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrapf(err, "writing message header")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrapf(err, "writing message payload")
	}
	return nil
}

// ReceiveMessage reads a single message previously written by SendMessage,
// allocating the concrete Message type its header tag identifies.
func ReceiveMessage(r io.Reader) (Message, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Wrapf(err, "reading message header")
	}
	t := msgType(binary.BigEndian.Uint16(header[0:2]))
	n := binary.BigEndian.Uint32(header[2:6])
	if n > maxMessageLen {
		return nil, errors.Errorf("bridge: message payload too large (%d bytes)", n)
	}

	msg, ok := newMessageForType(t)
	if !ok {
		return nil, errors.Errorf("bridge: unrecognized message type %d", t)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrapf(err, "reading message payload")
	}
	if err := json.Unmarshal(payload, msg); err != nil {
		return nil, errors.Wrapf(err, "json.Unmarshal into %T", msg)
	}
	return msg, nil
}
