// Package store provides the durable key-value backends favorites are persisted in.
package store

import (
	"io"

	"github.com/i474232898/weatherview/internal/favorites"
)

// KV is a favorites.KV that owns a connection.
type KV interface {
	favorites.KV
	io.Closer
}

var (
	_ KV = (*MemoryKV)(nil)
	_ KV = (*SQLiteKV)(nil)
	_ KV = (*ValkeyKV)(nil)
)
