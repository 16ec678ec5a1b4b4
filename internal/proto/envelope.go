// Package proto defines the JSON envelopes exchanged over a relay connection.
// Every frame is a flat object discriminated by its "type" field.
package proto

import "encoding/json"

const (
	InboundTypeJoin    = "join"
	InboundTypeMessage = "message"
	InboundTypeLeave   = "leave"

	OutboundTypeJoined  = "joined"
	OutboundTypeInfo    = "info"
	OutboundTypeMessage = "message"
	OutboundTypeError   = "error"
)

// Defaults applied when an inbound envelope omits the field.
const (
	DefaultRoom     = "main"
	DefaultUsername = "Anonymous"
)

// Inbound is a client frame. Fields beyond Type are optional; which ones are
// meaningful depends on the type.
type Inbound struct {
	Type     string `json:"type"`
	Room     string `json:"room,omitempty"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Outbound is a server frame sent back to one client or fanned out to a room.
type Outbound struct {
	Type      string `json:"type"`
	Room      string `json:"room,omitempty"`
	Username  string `json:"username,omitempty"`
	Text      string `json:"text,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ParseInbound decodes a single client frame.
func ParseInbound(data []byte) (Inbound, error) {
	var in Inbound
	err := json.Unmarshal(data, &in)
	return in, err
}

// Joined acknowledges a successful join.
func Joined(room string) Outbound {
	return Outbound{Type: OutboundTypeJoined, Room: room}
}

// Info builds an arrival or departure notice for a room.
func Info(room, text, timestamp string) Outbound {
	return Outbound{Type: OutboundTypeInfo, Room: room, Text: text, Timestamp: timestamp}
}

// Message builds a relayed chat message.
func Message(room, username, text, timestamp string) Outbound {
	return Outbound{
		Type:      OutboundTypeMessage,
		Room:      room,
		Username:  username,
		Text:      text,
		Timestamp: timestamp,
	}
}

// Error reports a recoverable protocol error back to the offending client.
func Error(text string) Outbound {
	return Outbound{Type: OutboundTypeError, Text: text}
}
