package storage

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/ohrn/loghive-go/internal/core/domain"
)

// Codec transforms serialized engine state into the stored representation
// and back. With neither compression nor sealing configured it is the
// identity.
//
// Encode order: zlib compress, seal, base64. Decode reverses it. The
// base64 step keeps stored blobs text-safe for stores that mangle raw
// binary (message values, text columns) and matches the layout of
// snapshots written by earlier deployments.
type Codec struct {
	// Compress enables zlib compression.
	Compress bool

	// Sealer, when set, authenticates and encrypts the blob.
	Sealer *Sealer
}

// Encode transforms state for storage.
func (c Codec) Encode(state []byte) ([]byte, error) {
	if !c.Compress && c.Sealer == nil {
		return state, nil
	}

	data := state
	if c.Compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, domain.ErrStateEncode.WithCause(fmt.Errorf("compress: %w", err))
		}
		if err := zw.Close(); err != nil {
			return nil, domain.ErrStateEncode.WithCause(fmt.Errorf("compress: %w", err))
		}
		data = buf.Bytes()
	}

	if c.Sealer != nil {
		var err error
		data, err = c.Sealer.Seal(data)
		if err != nil {
			return nil, domain.ErrStateEncode.WithCause(err)
		}
	}

	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out, nil
}

// Decode reverses Encode. Any failure means the blob is corrupt (or
// sealed with a different key); there is no partial result.
func (c Codec) Decode(blob []byte) ([]byte, error) {
	if !c.Compress && c.Sealer == nil {
		return blob, nil
	}

	data := make([]byte, base64.StdEncoding.DecodedLen(len(blob)))
	n, err := base64.StdEncoding.Decode(data, blob)
	if err != nil {
		return nil, domain.ErrSnapshotCorrupt.WithCause(fmt.Errorf("base64: %w", err))
	}
	data = data[:n]

	if c.Sealer != nil {
		data, err = c.Sealer.Open(data)
		if err != nil {
			return nil, domain.ErrSnapshotCorrupt.WithCause(err)
		}
	}

	if c.Compress {
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, domain.ErrSnapshotCorrupt.WithCause(fmt.Errorf("zlib: %w", err))
		}
		defer zr.Close()
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, domain.ErrSnapshotCorrupt.WithCause(fmt.Errorf("zlib: %w", err))
		}
	}

	return data, nil
}
