// Package protocol defines the wire format shared by the relay server and
// the terminal clients: a length-prefixed envelope carrying either a join
// request or a chat message as a nested JSON payload.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the payload carried by an Envelope.
type Kind string

const (
	KindJoinRequest Kind = "JoinRequest"
	KindChatMessage Kind = "ChatMessage"
)

// Envelope is the outer framed unit exchanged over the wire. The payload
// shape is determined solely by Kind; the codec never inspects it.
type Envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// ChatMessage is one line of chat as it travels between peers. ID is
// generated by the sender so a client can recognize its own echo regardless
// of later renames; Timestamp is assigned by the sender's process, so
// ordering across different senders is only approximate.
type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Color     Color     `json:"color"`
	Timestamp time.Time `json:"timestamp"`
}

// JoinRequest is sent as the first envelope on a connection, before any
// ChatMessage. A later JoinRequest on the same connection moves the client
// to another room.
type JoinRequest struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// DefaultRoom is joined when a client names no room of its own.
const DefaultRoom = "_default"

// NewChatEnvelope wraps a chat message for the wire.
func NewChatEnvelope(msg ChatMessage) (Envelope, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return Envelope{}, fmt.Errorf("protocol: encode chat payload: %w", err)
	}
	return Envelope{Kind: KindChatMessage, Payload: payload}, nil
}

// NewJoinEnvelope wraps a join request for the wire.
func NewJoinEnvelope(req JoinRequest) (Envelope, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("protocol: encode join payload: %w", err)
	}
	return Envelope{Kind: KindJoinRequest, Payload: payload}, nil
}

// ChatMessage unpacks the payload of a KindChatMessage envelope.
func (e Envelope) ChatMessage() (ChatMessage, error) {
	if e.Kind != KindChatMessage {
		return ChatMessage{}, &ProtocolError{Reason: fmt.Sprintf("envelope kind %q is not a chat message", e.Kind)}
	}
	var msg ChatMessage
	if err := json.Unmarshal(e.Payload, &msg); err != nil {
		return ChatMessage{}, &ProtocolError{Reason: "undecodable chat payload", Err: err}
	}
	return msg, nil
}

// JoinRequest unpacks the payload of a KindJoinRequest envelope.
func (e Envelope) JoinRequest() (JoinRequest, error) {
	if e.Kind != KindJoinRequest {
		return JoinRequest{}, &ProtocolError{Reason: fmt.Sprintf("envelope kind %q is not a join request", e.Kind)}
	}
	var req JoinRequest
	if err := json.Unmarshal(e.Payload, &req); err != nil {
		return JoinRequest{}, &ProtocolError{Reason: "undecodable join payload", Err: err}
	}
	return req, nil
}
