package server

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"tcpchat/internal/protocol"
)

const writeTimeout = 30 * time.Second

// Handler owns one accepted socket: a read loop decoding and dispatching
// envelopes, and a write loop draining the connection's delivery queue. The
// first failure on either side tears both down and removes the connection
// from the registry.
type Handler struct {
	conn net.Conn
	rec  *Connection
	reg  *Registry
	log  *logrus.Entry
}

func NewHandler(conn net.Conn, reg *Registry, log *logrus.Logger) *Handler {
	id := conn.RemoteAddr().String()
	return &Handler{
		conn: conn,
		rec:  reg.Add(id),
		reg:  reg,
		log:  log.WithField("conn", id),
	}
}

// Run serves the connection until it fails or the peer goes away. It blocks;
// callers start it in its own goroutine.
func (h *Handler) Run() {
	go h.writeLoop()
	h.readLoop()
}

func (h *Handler) readLoop() {
	defer h.drop()
	for {
		env, err := protocol.Decode(h.conn)
		if err != nil {
			h.log.WithError(err).Info("closing connection")
			return
		}
		switch env.Kind {
		case protocol.KindJoinRequest:
			req, err := env.JoinRequest()
			if err != nil {
				h.log.WithError(err).Warn("malformed join request, dropping connection")
				return
			}
			if err := h.reg.Join(h.rec.ID, req.Username, req.Room); err != nil {
				h.log.WithError(err).Warn("join rejected, dropping connection")
				return
			}
		case protocol.KindChatMessage:
			msg, err := env.ChatMessage()
			if err != nil {
				h.log.WithError(err).Warn("malformed chat message, dropping connection")
				return
			}
			h.reg.Route(h.rec.ID, msg)
		}
	}
}

func (h *Handler) writeLoop() {
	for env := range h.rec.outbound {
		h.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := protocol.Encode(h.conn, env); err != nil {
			h.log.WithError(err).Info("write failed, closing connection")
			h.drop()
			return
		}
	}
	// Queue closed: the registry already dropped us, just release the socket.
	h.conn.Close()
}

func (h *Handler) drop() {
	h.reg.Leave(h.rec.ID)
	h.conn.Close()
}
