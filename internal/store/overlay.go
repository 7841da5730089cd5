package store

import (
	"bytes"
	"context"
)

type change struct {
	data    []byte
	deleted bool
}

// overlay stages writes on top of a base view until commit.
type overlay struct {
	base    Tx
	changes map[Kind]map[string]change
}

func newOverlay(base Tx) *overlay {
	return &overlay{base: base, changes: make(map[Kind]map[string]change)}
}

func (o *overlay) staged(kind Kind, id string) (change, bool) {
	c, ok := o.changes[kind][id]
	return c, ok
}

func (o *overlay) stage(kind Kind, id string, c change) {
	m, ok := o.changes[kind]
	if !ok {
		m = make(map[string]change)
		o.changes[kind] = m
	}
	m[id] = c
}

func (o *overlay) Get(ctx context.Context, kind Kind, id string) ([]byte, bool, error) {
	if c, ok := o.staged(kind, id); ok {
		if c.deleted {
			return nil, false, nil
		}
		return bytes.Clone(c.data), true, nil
	}
	return o.base.Get(ctx, kind, id)
}

func (o *overlay) Put(ctx context.Context, kind Kind, id string, data []byte) error {
	o.stage(kind, id, change{data: bytes.Clone(data)})
	return nil
}

func (o *overlay) Delete(ctx context.Context, kind Kind, id string) (bool, error) {
	_, found, err := o.Get(ctx, kind, id)
	if err != nil || !found {
		return false, err
	}
	o.stage(kind, id, change{deleted: true})
	return true, nil
}

func (o *overlay) Scan(ctx context.Context, kind Kind) ([]Record, error) {
	records, err := o.base.Scan(ctx, kind)
	if err != nil {
		return nil, err
	}

	staged := o.changes[kind]
	if len(staged) == 0 {
		return records, nil
	}

	out := make([]Record, 0, len(records)+len(staged))
	for _, r := range records {
		if _, ok := staged[r.ID]; ok {
			continue
		}
		out = append(out, r)
	}
	for id, c := range staged {
		if c.deleted {
			continue
		}
		out = append(out, Record{ID: id, Data: bytes.Clone(c.data)})
	}
	return out, nil
}

// each visits every staged change.
func (o *overlay) each(fn func(kind Kind, id string, c change)) {
	for kind, m := range o.changes {
		for id, c := range m {
			fn(kind, id, c)
		}
	}
}
