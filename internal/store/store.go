// Package store holds the keyed entity collections behind the catalog,
// order and user services. Every backend speaks raw JSON documents; the
// typed helpers in this file do the encoding.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type Kind string

const (
	KindUser      Kind = "users"
	KindProduct   Kind = "products"
	KindOrder     Kind = "orders"
	KindOrderItem Kind = "order_items"
)

// Record is one stored document together with its id.
type Record struct {
	ID   string
	Data []byte
}

// Tx is the read/write view of the store. Absence is reported through the
// found flag, never as an error.
type Tx interface {
	Get(ctx context.Context, kind Kind, id string) ([]byte, bool, error)
	Put(ctx context.Context, kind Kind, id string, data []byte) error
	Delete(ctx context.Context, kind Kind, id string) (bool, error)
	Scan(ctx context.Context, kind Kind) ([]Record, error)
}

// Store is a Tx that can also allocate ids and run atomic updates.
// Writes made by fn inside Update are committed together when fn returns nil
// and discarded otherwise.
type Store interface {
	Tx
	NewID() string
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

func newID() string {
	return uuid.NewString()
}

// GetAs loads and decodes one entity. It returns nil, nil when absent.
func GetAs[T any](ctx context.Context, tx Tx, kind Kind, id string) (*T, error) {
	data, found, err := tx.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", kind, id, err)
	}
	return &v, nil
}

func PutAs(ctx context.Context, tx Tx, kind Kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", kind, id, err)
	}
	return tx.Put(ctx, kind, id, data)
}

func ScanAs[T any](ctx context.Context, tx Tx, kind Kind) ([]T, error) {
	records, err := tx.Scan(ctx, kind)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		var v T
		if err := json.Unmarshal(r.Data, &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", kind, r.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}
