package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"roomcast/internal/proto"
)

// Broadcaster fans an envelope out to every member of a room. Delivery happens
// outside the registry lock, so a slow peer never stalls joins or leaves.
type Broadcaster struct {
	reg *Registry
	log *zerolog.Logger
}

// NewBroadcaster builds a broadcaster over the given registry.
func NewBroadcaster(reg *Registry, logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{reg: reg, log: logger}
}

// Broadcast serializes env once and delivers it concurrently to every current
// member of room. A member that fails delivery is pruned from the room; the
// failure never aborts delivery to the rest and never reaches the caller.
// Broadcasting to a room with no members is a no-op.
func (b *Broadcaster) Broadcast(ctx context.Context, room string, env proto.Outbound) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	members := b.reg.Snapshot(room)

	var wg sync.WaitGroup
	for _, member := range members {
		member := member
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sendErr := member.Send(ctx, payload); sendErr != nil {
				b.reg.RemoveMember(room, member)
				b.log.Warn().
					Err(sendErr).
					Str("conn_id", member.ID()).
					Str("room", room).
					Msg("delivery failed, member pruned")
			}
		}()
	}
	wg.Wait()

	return nil
}
