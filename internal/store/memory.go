package store

import (
	"bytes"
	"context"
	"sync"
)

// Memory keeps every collection in process memory. One RWMutex guards all
// kinds; Update holds the write lock for the whole transaction.
type Memory struct {
	mu   sync.RWMutex
	data map[Kind]map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[Kind]map[string][]byte)}
}

func (m *Memory) NewID() string { return newID() }

func (m *Memory) Close() error { return nil }

func (m *Memory) Get(ctx context.Context, kind Kind, id string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().Get(ctx, kind, id)
}

func (m *Memory) Put(ctx context.Context, kind Kind, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().Put(ctx, kind, id, data)
}

func (m *Memory) Delete(ctx context.Context, kind Kind, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().Delete(ctx, kind, id)
}

func (m *Memory) Scan(ctx context.Context, kind Kind) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().Scan(ctx, kind)
}

func (m *Memory) Update(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	base := m.view()
	tx := newOverlay(base)
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx.each(func(kind Kind, id string, c change) {
		if c.deleted {
			delete(m.data[kind], id)
			return
		}
		base.set(kind, id, c.data)
	})
	return nil
}

func (m *Memory) view() memView { return memView{m: m} }

// memView accesses the maps without locking; callers hold m.mu.
type memView struct {
	m *Memory
}

func (v memView) set(kind Kind, id string, data []byte) {
	coll, ok := v.m.data[kind]
	if !ok {
		coll = make(map[string][]byte)
		v.m.data[kind] = coll
	}
	coll[id] = bytes.Clone(data)
}

func (v memView) Get(_ context.Context, kind Kind, id string) ([]byte, bool, error) {
	data, ok := v.m.data[kind][id]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(data), true, nil
}

func (v memView) Put(_ context.Context, kind Kind, id string, data []byte) error {
	v.set(kind, id, data)
	return nil
}

func (v memView) Delete(_ context.Context, kind Kind, id string) (bool, error) {
	if _, ok := v.m.data[kind][id]; !ok {
		return false, nil
	}
	delete(v.m.data[kind], id)
	return true, nil
}

func (v memView) Scan(_ context.Context, kind Kind) ([]Record, error) {
	coll := v.m.data[kind]
	out := make([]Record, 0, len(coll))
	for id, data := range coll {
		out = append(out, Record{ID: id, Data: bytes.Clone(data)})
	}
	return out, nil
}
