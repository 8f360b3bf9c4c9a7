package client

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tcpchat/internal/protocol"
)

// Status line colors, matching the rest of the command feedback.
const (
	infoColor = protocol.ColorLightBlue
	errColor  = protocol.ColorLightRed
)

// Session holds the client-side state of one chat sitting: the identity
// used on outbound messages, the two display colors, and the append-only
// message history the UI renders. History grows for the lifetime of the
// session; there is no eviction.
//
// The UI goroutine is the only mutator; the mutex covers the snapshot the
// render path takes while the transport goroutine may be delivering.
type Session struct {
	mu          sync.Mutex
	username    string
	localColor  protocol.Color
	remoteColor protocol.Color
	history     []protocol.ChatMessage
	sent        map[string]struct{}
}

func NewSession(username string, local, remote protocol.Color) *Session {
	return &Session{
		username:    username,
		localColor:  local,
		remoteColor: remote,
		sent:        make(map[string]struct{}),
	}
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Rename changes the name used on subsequent sends. The server is not told;
// peers simply see the new name on later messages.
func (s *Session) Rename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = name
}

func (s *Session) SetLocalColor(c protocol.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localColor = c
}

func (s *Session) SetRemoteColor(c protocol.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remoteColor = c
}

func (s *Session) RemoteColor() protocol.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteColor
}

// Compose builds the wire message for a line of user input and appends the
// local echo to history in the local display color, so the sender sees
// their text immediately without a network round trip.
func (s *Session) Compose(content string) protocol.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := protocol.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    s.username,
		Content:   content,
		Color:     s.remoteColor,
		Timestamp: time.Now().UTC(),
	}
	s.sent[msg.ID] = struct{}{}

	echo := msg
	echo.Color = s.localColor
	s.history = append(s.history, echo)
	return msg
}

// Receive appends a peer message to history. The server echoes room traffic
// back to everyone but the sender, yet the sender's own messages can still
// arrive here through other paths, so messages this session composed are
// recognized by id and skipped; peers that sent no id fall back to a
// sender-name comparison. Reports whether the message was kept.
func (s *Session) Receive(msg protocol.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID != "" {
		if _, mine := s.sent[msg.ID]; mine {
			delete(s.sent, msg.ID)
			return false
		}
	} else if msg.Sender == s.username {
		return false
	}
	s.history = append(s.history, msg)
	return true
}

// Info appends a local status line in the informational color.
func (s *Session) Info(content string) {
	s.appendStatus(content, infoColor)
}

// Error appends a local status line in the error color.
func (s *Session) Error(content string) {
	s.appendStatus(content, errColor)
}

// appendColored appends a status line in an arbitrary color, used by the
// color commands to demonstrate the freshly chosen color.
func (s *Session) appendColored(content string, c protocol.Color) {
	s.appendStatus(content, c)
}

func (s *Session) appendStatus(content string, c protocol.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, protocol.ChatMessage{
		Sender:    s.username,
		Content:   content,
		Color:     c,
		Timestamp: time.Now().UTC(),
	})
}

// History snapshots the message history for rendering.
func (s *Session) History() []protocol.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}
