package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"roomcast/internal/clock"
	"roomcast/internal/proto"
)

// Session drives the relay for one connection: it decodes inbound envelopes,
// mutates the registry, and triggers broadcasts. The session owns its Conn;
// the registry only ever holds a reference to it.
type Session struct {
	conn  Conn
	reg   *Registry
	bcast *Broadcaster
	log   zerolog.Logger
	now   func() time.Time

	room     string // empty until a join succeeds
	username string // empty until set by a join or message
	cleaned  bool
}

// NewSession builds the session for a freshly accepted connection.
func NewSession(conn Conn, reg *Registry, bcast *Broadcaster, logger *zerolog.Logger) *Session {
	return &Session{
		conn:  conn,
		reg:   reg,
		bcast: bcast,
		log:   logger.With().Str("conn_id", conn.ID()).Logger(),
		now:   time.Now,
	}
}

// Handle processes one inbound text frame. Decode and semantic failures are
// answered with an error envelope and leave the session state unchanged.
func (s *Session) Handle(ctx context.Context, data []byte) {
	in, err := proto.ParseInbound(data)
	if err != nil {
		s.log.Debug().Err(err).Msg("undecodable frame")
		s.reply(ctx, proto.Error("Invalid JSON"))
		return
	}

	switch in.Type {
	case proto.InboundTypeJoin:
		s.handleJoin(ctx, in)
	case proto.InboundTypeMessage:
		s.handleMessage(ctx, in)
	case proto.InboundTypeLeave:
		s.handleLeave(ctx, in)
	default:
		s.reply(ctx, proto.Error(fmt.Sprintf("Unknown type %s", in.Type)))
	}
}

// handleJoin moves the session into the requested room. Joining while already
// in another room leaves that room first, so a connection is a member of at
// most one room at any instant.
func (s *Session) handleJoin(ctx context.Context, in proto.Inbound) {
	room := in.Room
	if room == "" {
		room = proto.DefaultRoom
	}
	username := in.Username
	if username == "" {
		username = proto.DefaultUsername
	}

	if s.room != "" && s.room != room {
		s.reg.RemoveMember(s.room, s.conn)
	}
	s.reg.AddMember(room, s.conn)
	s.room = room
	s.username = username

	_ = s.bcast.Broadcast(ctx, room, proto.Info(room, username+" joined", s.stamp()))
	s.reply(ctx, proto.Joined(room))
	s.log.Info().Str("room", room).Str("username", username).Msg("joined room")
}

func (s *Session) handleMessage(ctx context.Context, in proto.Inbound) {
	room := in.Room
	if room == "" {
		room = s.room
	}
	if room == "" {
		s.reply(ctx, proto.Error("No room specified"))
		return
	}
	if in.Username != "" {
		s.username = in.Username
	}

	_ = s.bcast.Broadcast(ctx, room, proto.Message(room, s.username, in.Text, s.stamp()))
}

func (s *Session) handleLeave(ctx context.Context, in proto.Inbound) {
	room := in.Room
	if room == "" {
		room = s.room
	}
	if room == "" {
		s.reply(ctx, proto.Error("No room specified"))
		return
	}

	s.reg.RemoveMember(room, s.conn)
	if room == s.room {
		s.room = ""
	}
	s.log.Info().Str("room", room).Msg("left room")
}

// Close runs the disconnect cleanup: the connection is removed from its room
// and, when a username is known, a departure notice goes out to the remaining
// members. Safe to call more than once; only the first call does anything.
func (s *Session) Close(ctx context.Context) {
	if s.cleaned {
		return
	}
	s.cleaned = true

	room := s.room
	s.room = ""
	if room == "" {
		return
	}

	s.reg.RemoveMember(room, s.conn)
	if s.username != "" {
		_ = s.bcast.Broadcast(ctx, room, proto.Info(room, s.username+" left the chat", s.stamp()))
	}
	s.log.Info().Str("room", room).Msg("session closed")
}

// reply sends an envelope to this session's own connection, best effort.
func (s *Session) reply(ctx context.Context, env proto.Outbound) {
	payload, err := json.Marshal(env)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal reply")
		return
	}
	if err := s.conn.Send(ctx, payload); err != nil {
		s.log.Debug().Err(err).Msg("reply not delivered")
	}
}

func (s *Session) stamp() string {
	return clock.Stamp(s.now())
}
