package client

import (
	"strings"
	"testing"

	"tcpchat/internal/protocol"
)

type fakeSender struct {
	sent  []protocol.ChatMessage
	joins []protocol.JoinRequest
}

func (f *fakeSender) Send(msg protocol.ChatMessage) bool {
	f.sent = append(f.sent, msg)
	return true
}

func (f *fakeSender) JoinRoom(username, room string) bool {
	f.joins = append(f.joins, protocol.JoinRequest{Username: username, Room: room})
	return true
}

func newTestCommander() (*Commander, *Session, *fakeSender) {
	session := NewSession("alice", protocol.ColorWhite, protocol.ColorRed)
	sender := &fakeSender{}
	return NewCommander(session, sender), session, sender
}

func lastLine(t *testing.T, s *Session) protocol.ChatMessage {
	t.Helper()
	history := s.History()
	if len(history) == 0 {
		t.Fatal("history is empty")
	}
	return history[len(history)-1]
}

func TestPlainInputIsSentAndEchoedLocally(t *testing.T) {
	c, session, sender := newTestCommander()

	c.Submit("hello room\n")

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	wire := sender.sent[0]
	if wire.Sender != "alice" || wire.Content != "hello room" {
		t.Errorf("wire message = %+v", wire)
	}
	if wire.Color != protocol.ColorRed {
		t.Errorf("wire color = %q, want the remote color red", wire.Color)
	}
	if wire.ID == "" {
		t.Error("wire message carries no id")
	}

	echo := lastLine(t, session)
	if echo.Content != "hello room" || echo.Color != protocol.ColorWhite {
		t.Errorf("local echo = %+v, want content in the local color white", echo)
	}
}

func TestRemoteColorChange(t *testing.T) {
	c, session, sender := newTestCommander()

	c.Submit("/remote-color magenta")

	status := lastLine(t, session)
	if status.Content != "Changed color to magenta" {
		t.Errorf("status = %q, want %q", status.Content, "Changed color to magenta")
	}
	if got := session.RemoteColor(); got != protocol.ColorMagenta {
		t.Errorf("remote color = %q, want magenta", got)
	}

	c.Submit("later message")
	if got := sender.sent[len(sender.sent)-1].Color; got != protocol.ColorMagenta {
		t.Errorf("subsequent outbound color = %q, want magenta", got)
	}
}

func TestUnknownColorKeepsPrevious(t *testing.T) {
	c, session, sender := newTestCommander()

	c.Submit("/remote-color neon")

	status := lastLine(t, session)
	if status.Content != "No such color. Try /help colors" {
		t.Errorf("status = %q, want %q", status.Content, "No such color. Try /help colors")
	}
	c.Submit("still red")
	if got := sender.sent[0].Color; got != protocol.ColorRed {
		t.Errorf("outbound color after failed change = %q, want the prior red", got)
	}
}

func TestLocalColorChange(t *testing.T) {
	c, session, _ := newTestCommander()

	c.Submit("/local-color lightcyan")
	c.Submit("mine")

	echo := lastLine(t, session)
	if echo.Color != protocol.ColorLightCyan {
		t.Errorf("local echo color = %q, want lightcyan", echo.Color)
	}
}

func TestRenameAffectsLaterSends(t *testing.T) {
	c, session, sender := newTestCommander()

	c.Submit("/rename alicia")
	if status := lastLine(t, session); status.Content != "Changed name to: alicia" {
		t.Errorf("status = %q", status.Content)
	}

	c.Submit("as alicia")
	if got := sender.sent[0].Sender; got != "alicia" {
		t.Errorf("outbound sender = %q, want alicia", got)
	}

	c.Submit("/rename")
	if status := lastLine(t, session); !strings.Contains(status.Content, "Incorrect usage") {
		t.Errorf("missing-argument status = %q", status.Content)
	}
}

func TestInfoShowsUsername(t *testing.T) {
	c, session, _ := newTestCommander()

	c.Submit("/info")
	if status := lastLine(t, session); status.Content != "alice" {
		t.Errorf("info = %q, want alice", status.Content)
	}
}

func TestJoinSendsJoinRequest(t *testing.T) {
	c, _, sender := newTestCommander()

	c.Submit("/join roomB")
	if len(sender.joins) != 1 || sender.joins[0].Room != "roomB" || sender.joins[0].Username != "alice" {
		t.Errorf("joins = %+v, want one for alice/roomB", sender.joins)
	}
}

func TestHelp(t *testing.T) {
	c, session, _ := newTestCommander()

	c.Submit("/help")
	if status := lastLine(t, session); !strings.Contains(status.Content, "/rename") {
		t.Errorf("help does not list commands: %q", status.Content)
	}

	c.Submit("/help colors")
	status := lastLine(t, session)
	if !strings.Contains(status.Content, "magenta") || !strings.Contains(status.Content, "lightcyan") {
		t.Errorf("color help does not list color names: %q", status.Content)
	}
}

func TestUnknownCommand(t *testing.T) {
	c, session, sender := newTestCommander()

	c.Submit("/frobnicate now")
	if status := lastLine(t, session); status.Content != "Unknown command. Try /help" {
		t.Errorf("status = %q", status.Content)
	}
	if len(sender.sent) != 0 {
		t.Errorf("an unknown command reached the wire: %+v", sender.sent)
	}
}

func TestEmptyInputIsIgnored(t *testing.T) {
	c, session, sender := newTestCommander()

	c.Submit("   \n")
	if len(session.History()) != 0 || len(sender.sent) != 0 {
		t.Error("blank input produced history or traffic")
	}
}
