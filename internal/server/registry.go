package server

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"tcpchat/internal/protocol"
)

// outboundDepth is the per-connection delivery queue size. A member whose
// queue is full at fan-out time loses that delivery instead of stalling the
// rest of the room.
const outboundDepth = 64

// Connection is the server-side record of one accepted socket. The registry
// owns it; handlers reach it only through registry operations.
type Connection struct {
	ID       string
	Username string
	Room     string
	outbound chan protocol.Envelope
	closed   bool
}

// Room is a named group of connections that receive each other's messages.
type Room struct {
	Name    string
	members map[string]*Connection
}

// Registry is the authoritative mapping from connections to rooms and rooms
// to member sets. Join, Route and Leave are each atomic with respect to one
// another; the lock is never held across a socket write.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	conns map[string]*Connection
	log   *logrus.Logger
}

func NewRegistry(log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		rooms: map[string]*Room{
			protocol.DefaultRoom: {Name: protocol.DefaultRoom, members: make(map[string]*Connection)},
		},
		conns: make(map[string]*Connection),
		log:   log,
	}
}

// Add registers a freshly accepted connection with no room yet and returns
// its record.
func (r *Registry) Add(id string) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn := &Connection{
		ID:       id,
		outbound: make(chan protocol.Envelope, outboundDepth),
	}
	r.conns[id] = conn
	return conn
}

// Join records the username on the connection and moves it into the named
// room, creating the room on first use. A connection already in a room is
// removed from it first, so it is a member of exactly one room afterwards.
func (r *Registry) Join(id, username, roomName string) error {
	if username == "" {
		return fmt.Errorf("join from %s: empty username", id)
	}
	if roomName == "" {
		roomName = protocol.DefaultRoom
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[id]
	if !ok {
		return fmt.Errorf("join from %s: unknown connection", id)
	}
	if conn.Room != "" {
		if old, ok := r.rooms[conn.Room]; ok {
			delete(old.members, id)
		}
	}
	room, ok := r.rooms[roomName]
	if !ok {
		room = &Room{Name: roomName, members: make(map[string]*Connection)}
		r.rooms[roomName] = room
	}
	room.members[id] = conn
	conn.Username = username
	conn.Room = roomName

	r.log.WithFields(logrus.Fields{
		"conn":     id,
		"username": username,
		"room":     roomName,
	}).Info("joined room")
	return nil
}

// Route fans a chat message out to every other member of the sender's room.
// A message arriving before the sender has joined a room is dropped. Each
// delivery is enqueued, never written synchronously, so one stalled peer
// cannot stall the others.
func (r *Registry) Route(senderID string, msg protocol.ChatMessage) {
	env, err := protocol.NewChatEnvelope(msg)
	if err != nil {
		r.log.WithField("conn", senderID).WithError(err).Error("dropping unroutable message")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sender, ok := r.conns[senderID]
	if !ok || sender.Room == "" {
		r.log.WithField("conn", senderID).Warn("dropping message from connection with no room")
		return
	}
	room, ok := r.rooms[sender.Room]
	if !ok {
		r.log.WithFields(logrus.Fields{"conn": senderID, "room": sender.Room}).Warn("dropping message for missing room")
		return
	}
	for id, member := range room.members {
		if id == senderID {
			continue
		}
		select {
		case member.outbound <- env:
		default:
			r.log.WithFields(logrus.Fields{"conn": id, "room": room.Name}).Warn("outbound queue full, dropping delivery")
		}
	}
}

// Leave removes the connection from its room and from the registry and
// closes its delivery queue. Safe to call more than once.
func (r *Registry) Leave(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[id]
	if !ok {
		return
	}
	if room, ok := r.rooms[conn.Room]; ok {
		delete(room.members, id)
	}
	delete(r.conns, id)
	if !conn.closed {
		conn.closed = true
		close(conn.outbound)
	}
	r.log.WithField("conn", id).Info("left")
}

// Members reports the connection ids currently in the named room.
func (r *Registry) Members(roomName string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomName]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(room.members))
	for id := range room.members {
		ids = append(ids, id)
	}
	return ids
}
