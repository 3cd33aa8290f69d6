package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"
)

// ValkeyKV persists key-value pairs in a Valkey/Redis-compatible server.
type ValkeyKV struct {
	client valkey.Client
	prefix string
}

// NewValkeyKV wraps an existing client. Keys are namespaced with prefix.
func NewValkeyKV(client valkey.Client, prefix string) *ValkeyKV {
	if prefix == "" {
		prefix = "weatherview"
	}
	return &ValkeyKV{client: client, prefix: prefix}
}

// DialValkey connects to addr (host:port or a redis:// URL) and pings it.
func DialValkey(ctx context.Context, addr, prefix string) (*ValkeyKV, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(addr, "://") {
		opt, err = valkey.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse valkey url: %w", err)
		}
	} else {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}

	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}
	return NewValkeyKV(client, prefix), nil
}

// Get returns the value stored under key.
func (s *ValkeyKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// Set stores value under key without expiry.
func (s *ValkeyKV) Set(ctx context.Context, key, value string) error {
	return s.client.Do(ctx, s.client.B().Set().Key(s.key(key)).Value(value).Build()).Error()
}

// Close closes the underlying client.
func (s *ValkeyKV) Close() error {
	s.client.Close()
	return nil
}

func (s *ValkeyKV) key(k string) string {
	return s.prefix + ":" + k
}
