// Package core declares the contracts between the coordination layer
// and the transport adapters.
package core

// Frame is one encoded outbound event.
type Frame []byte

// SignalConnection abstracts for a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
// TrySend never blocks: a full or dead peer returns an error and the
// frame is dropped, delivery to others is unaffected.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
