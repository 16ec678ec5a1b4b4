package core

import "context"

// Conn is one live client connection as seen by the relay core. The transport
// owns the underlying socket; the core only holds references for membership
// bookkeeping and delivery.
type Conn interface {
	// ID identifies the connection in logs.
	ID() string
	// Send writes one text frame. Implementations must be safe for concurrent
	// use; a returned error marks the connection as unusable.
	Send(ctx context.Context, data []byte) error
}
