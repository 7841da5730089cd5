package product

import (
	"context"

	"storefront-be/internal/store"
)

type Repository interface {
	NewID() string
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdateTx(ctx context.Context, id string, apply func(p *Product) error) (*Product, error)
}

type repository struct {
	store store.Store
}

func NewRepository(s store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) NewID() string {
	return r.store.NewID()
}

func (r *repository) Save(ctx context.Context, p *Product) error {
	return store.PutAs(ctx, r.store, store.KindProduct, p.ID, p)
}

// FindByID returns nil, nil when the product does not exist.
func (r *repository) FindByID(ctx context.Context, id string) (*Product, error) {
	return store.GetAs[Product](ctx, r.store, store.KindProduct, id)
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	return store.ScanAs[Product](ctx, r.store, store.KindProduct)
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.store.Delete(ctx, store.KindProduct, id)
}

// UpdateTx reads, modifies and writes the product in one store transaction,
// so a concurrent stock decrement is never overwritten with a stale value.
func (r *repository) UpdateTx(ctx context.Context, id string, apply func(p *Product) error) (*Product, error) {
	var updated *Product
	err := r.store.Update(ctx, func(tx store.Tx) error {
		p, err := store.GetAs[Product](ctx, tx, store.KindProduct, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}

		if err := apply(p); err != nil {
			return err
		}

		updated = p
		return store.PutAs(ctx, tx, store.KindProduct, p.ID, p)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
