// Package kvstore is the flat key/value namespace every record of the guide
// lives in. Keys are opaque strings with prefix-encoded structure
// ("posts:<id>", "comments:<postId>:<id>") and values are JSON documents.
package kvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// TxFunc is executed atomically by Store.Tx. The Store handed to it must be
// used for every read and write that belongs to the transaction.
type TxFunc func(ctx context.Context, s Store) error

// Store is implemented by every backend.
type Store interface {
	// Get decodes the value under key into dst. A missing key reports
	// found=false with a nil error. Inside Tx the row is locked until commit.
	Get(ctx context.Context, key string, dst interface{}) (found bool, err error)
	// Set stores value as JSON under key, replacing any previous value.
	Set(ctx context.Context, key string, value interface{}) error
	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// Scan returns every entry whose key starts with prefix, ordered by key.
	Scan(ctx context.Context, prefix string) ([]Entry, error)
	// Tx runs fn atomically. Nested calls join the outer transaction.
	Tx(ctx context.Context, fn TxFunc) error
}

// Entry is a raw key/value pair returned by Scan.
type Entry struct {
	Key   string
	Value []byte
}

// Decode unmarshals the entry value into dst.
func (e Entry) Decode(dst interface{}) error {
	if err := json.Unmarshal(e.Value, dst); err != nil {
		return fmt.Errorf("kvstore: decode %q: %w", e.Key, err)
	}
	return nil
}

// Suffix returns the part of the key after prefix.
func (e Entry) Suffix(prefix string) string {
	return strings.TrimPrefix(e.Key, prefix)
}

// ScanAll scans prefix and decodes every value into a T.
func ScanAll[T any](ctx context.Context, s Store, prefix string) ([]T, error) {
	entries, err := s.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := e.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Keys returns the keys of entries.
func Keys(entries []Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

func encode(key string, value interface{}) ([]byte, error) {
	if raw, ok := value.([]byte); ok {
		return raw, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("kvstore: encode %q: %w", key, err)
	}
	return data, nil
}

func decode(key string, data []byte, dst interface{}) error {
	if raw, ok := dst.(*[]byte); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("kvstore: decode %q: %w", key, err)
	}
	return nil
}
