// Package storage defines the persistence contract for engine snapshots
// and the codec applied to snapshot bytes on their way in and out of a
// store.
//
// A store holds exactly one snapshot: Save overwrites, Load returns the
// current blob or (nil, nil) when nothing has been stored yet. Stores are
// opaque byte sinks; schema and compression are the codec's business.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store closed")

// Handler loads and saves the single current snapshot blob.
//
// Save and Load block; there is no internal retry or buffering. Single
// writer is assumed.
type Handler interface {
	// Load returns the current snapshot, or (nil, nil) when none exists.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the current snapshot.
	Save(ctx context.Context, state []byte) error
}
