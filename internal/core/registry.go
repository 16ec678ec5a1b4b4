// Package core implements the relay: the room membership registry, the
// broadcast fan-out, and the per-connection session state machine.
package core

import "sync"

// Registry is the authoritative room -> members mapping. All access goes
// through its methods; the mutex is never held across I/O.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]map[Conn]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[Conn]struct{})}
}

// AddMember inserts conn into room, creating the room entry if absent.
// Adding an existing member is a no-op.
func (r *Registry) AddMember(room string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[Conn]struct{})
		r.rooms[room] = members
	}
	members[conn] = struct{}{}
}

// RemoveMember removes conn from room and deletes the room entry once its
// last member is gone. Removing an absent member or room is a no-op.
func (r *Registry) RemoveMember(room string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, conn)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// Snapshot returns an independent copy of room's member set, safe to iterate
// without holding any lock. An absent room yields an empty slice.
func (r *Registry) Snapshot(room string) []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[room]
	out := make([]Conn, 0, len(members))
	for conn := range members {
		out = append(out, conn)
	}
	return out
}

// Rooms enumerates the active rooms and their member counts.
func (r *Registry) Rooms() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.rooms))
	for room, members := range r.rooms {
		out[room] = len(members)
	}
	return out
}
