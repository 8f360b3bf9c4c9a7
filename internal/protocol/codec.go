package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MaxFrameSize bounds the length prefix a decoder accepts. A peer announcing
// a larger frame is treated as speaking a broken protocol.
const MaxFrameSize = 1 << 20

// ProtocolError marks a malformed frame or payload. It is connection-fatal:
// the framing is self-describing, so a bad frame cannot be resynchronized
// and the caller must drop the connection.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol: %s: %v", e.Reason, e.Err)
	}
	return "protocol: " + e.Reason
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Encode writes one envelope as a frame: an 8-byte big-endian length
// followed by that many bytes of JSON.
func Encode(w io.Writer, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("protocol: encode envelope: %w", err)
	}
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(body)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("protocol: write frame length: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("protocol: write frame body: %w", err)
	}
	return nil
}

// Decode reads one frame and returns the envelope it carries. It blocks
// until a full frame is available and never returns a partially read
// envelope: a stream that ends mid-frame yields an error.
func Decode(r io.Reader) (Envelope, error) {
	var prefix [8]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return Envelope{}, fmt.Errorf("protocol: read frame length: %w", err)
	}
	n := binary.BigEndian.Uint64(prefix[:])
	if n == 0 || n > MaxFrameSize {
		return Envelope{}, &ProtocolError{Reason: fmt.Sprintf("frame length %d out of bounds", n)}
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return Envelope{}, fmt.Errorf("protocol: read frame body: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, &ProtocolError{Reason: "undecodable envelope", Err: err}
	}
	switch env.Kind {
	case KindJoinRequest, KindChatMessage:
	default:
		return Envelope{}, &ProtocolError{Reason: fmt.Sprintf("unknown envelope kind %q", env.Kind)}
	}
	return env, nil
}
