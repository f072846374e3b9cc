package kvstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps every value in process memory. Transactions are
// serialized and their writes are buffered until fn returns nil.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data map[string][]byte
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get implements Store
func (m *MemoryStore) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	m.mu.RLock()
	data, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, decode(key, data, dst)
}

// Set implements Store
func (m *MemoryStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = data
	m.mu.Unlock()
	return nil
}

// Delete implements Store
func (m *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.mu.Unlock()
	return nil
}

// Scan implements Store
func (m *MemoryStore) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0)
	for k, v := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, Entry{Key: k, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Tx implements Store
func (m *MemoryStore) Tx(ctx context.Context, fn TxFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &memoryTx{parent: m, pending: make(map[string][]byte)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	for k, v := range tx.pending {
		if v == nil {
			delete(m.data, k)
			continue
		}
		m.data[k] = v
	}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// memoryTx overlays buffered writes on the parent store. A nil value in
// pending marks a deletion.
type memoryTx struct {
	parent  *MemoryStore
	pending map[string][]byte
}

func (t *memoryTx) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	if v, ok := t.pending[key]; ok {
		if v == nil {
			return false, nil
		}
		return true, decode(key, v, dst)
	}
	return t.parent.Get(ctx, key, dst)
}

func (t *memoryTx) Set(ctx context.Context, key string, value interface{}) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}
	t.pending[key] = data
	return nil
}

func (t *memoryTx) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		t.pending[k] = nil
	}
	return nil
}

func (t *memoryTx) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	committed, err := t.parent.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}

	merged := make(map[string][]byte, len(committed))
	for _, e := range committed {
		merged[e.Key] = e.Value
	}
	for k, v := range t.pending {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}

	out := make([]Entry, 0, len(merged))
	for k, v := range merged {
		out = append(out, Entry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (t *memoryTx) Tx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, t)
}
