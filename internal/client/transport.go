// Package client implements the user side of the chat: the socket transport
// that duplexes reads and writes, the session holding the user's identity
// and message history, and the local slash-command interpreter.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"tcpchat/internal/protocol"
)

// ErrSevered is reported when the connection to the relay is lost on either
// the read or the write side.
var ErrSevered = errors.New("connection with server was severed")

// Transport owns the client's socket. One goroutine decodes inbound frames
// into Inbound, another drains the outbound queue onto the wire. The first
// failure on either duty closes Done; the UI observes it, restores the
// terminal and exits instead of spinning.
type Transport struct {
	conn     net.Conn
	Inbound  chan protocol.ChatMessage
	outbound chan protocol.Envelope
	done     chan struct{}
	once     sync.Once
	err      error
	log      *logrus.Entry
}

// Dial connects to the relay, performs the join handshake for the given
// identity and starts both transport loops. ctx cancellation (interrupt)
// shuts the transport down.
func Dial(ctx context.Context, addr string, join protocol.JoinRequest) (*Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}
	t := newTransport(conn)
	if err := t.sendJoin(join); err != nil {
		conn.Close()
		return nil, err
	}
	t.start(ctx)
	return t, nil
}

// newTransport wires a transport around an established connection. The join
// handshake and loop startup stay with the caller, which lets tests drive a
// transport over a pipe.
func newTransport(conn net.Conn) *Transport {
	return &Transport{
		conn:     conn,
		Inbound:  make(chan protocol.ChatMessage, 16),
		outbound: make(chan protocol.Envelope, 16),
		done:     make(chan struct{}),
		log:      logrus.WithField("remote", conn.RemoteAddr().String()),
	}
}

// sendJoin writes the join request synchronously. It is the first envelope
// on the connection, before any chat message.
func (t *Transport) sendJoin(join protocol.JoinRequest) error {
	env, err := protocol.NewJoinEnvelope(join)
	if err != nil {
		return err
	}
	if err := protocol.Encode(t.conn, env); err != nil {
		return fmt.Errorf("client: join handshake: %w", err)
	}
	return nil
}

func (t *Transport) start(ctx context.Context) {
	go t.readLoop()
	go t.writeLoop()
	go func() {
		select {
		case <-ctx.Done():
			t.fail(ctx.Err())
		case <-t.done:
		}
	}()
}

// Send queues a chat message for delivery. It reports false once the
// transport is down.
func (t *Transport) Send(msg protocol.ChatMessage) bool {
	env, err := protocol.NewChatEnvelope(msg)
	if err != nil {
		t.log.WithError(err).Error("dropping unsendable message")
		return false
	}
	return t.enqueue(env)
}

// JoinRoom asks the relay to move this connection into another room.
func (t *Transport) JoinRoom(username, room string) bool {
	env, err := protocol.NewJoinEnvelope(protocol.JoinRequest{Username: username, Room: room})
	if err != nil {
		t.log.WithError(err).Error("dropping unsendable join")
		return false
	}
	return t.enqueue(env)
}

func (t *Transport) enqueue(env protocol.Envelope) bool {
	select {
	case t.outbound <- env:
		return true
	case <-t.done:
		return false
	}
}

// Done is closed when the transport stops for any reason.
func (t *Transport) Done() <-chan struct{} { return t.done }

// Err reports why the transport stopped. Valid after Done is closed.
func (t *Transport) Err() error { return t.err }

func (t *Transport) fail(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
		t.conn.Close()
	})
}

func (t *Transport) readLoop() {
	for {
		env, err := protocol.Decode(t.conn)
		if err != nil {
			t.log.WithError(err).Info("read loop stopped")
			t.fail(ErrSevered)
			return
		}
		if env.Kind != protocol.KindChatMessage {
			continue
		}
		msg, err := env.ChatMessage()
		if err != nil {
			t.log.WithError(err).Info("undecodable message, dropping connection")
			t.fail(ErrSevered)
			return
		}
		select {
		case t.Inbound <- msg:
		case <-t.done:
			return
		}
	}
}

func (t *Transport) writeLoop() {
	for {
		select {
		case env := <-t.outbound:
			if err := protocol.Encode(t.conn, env); err != nil {
				t.log.WithError(err).Info("write loop stopped")
				t.fail(ErrSevered)
				return
			}
		case <-t.done:
			return
		}
	}
}
