package order

import (
	"context"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"
	"storefront-be/internal/store"

	"go.uber.org/zap"
)

type Repository interface {
	NewID() string
	CreateOrderTx(ctx context.Context, o *Order, items []OrderItem, policy StockPolicy) (*CreateResult, error)
	UpdateStatusTx(ctx context.Context, id string, apply func(o *Order) error) (*Order, error)
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	Items(ctx context.Context) ([]OrderItem, error)
	Products(ctx context.Context) (map[string]product.Product, error)
}

// CreateResult is what CreateOrderTx committed: the products the order
// touched (as stored after the decrement) and the stock units taken.
type CreateResult struct {
	Products   map[string]product.Product
	StockUnits int
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

// CreateOrderTx writes the order, its items and the stock decrements in one
// store transaction. Items naming a missing product are still written.
func (r *repository) CreateOrderTx(
	ctx context.Context,
	o *Order,
	items []OrderItem,
	policy StockPolicy,
) (*CreateResult, error) {
	log := logger.FromCtx(ctx)
	timer := metrics.StartTimer("create_order")

	var result *CreateResult
	err := r.store.Update(ctx, func(tx store.Tx) error {
		res := &CreateResult{Products: map[string]product.Product{}}
		missing := map[string]bool{}

		// 1. Insert order
		if err := store.PutAs(ctx, tx, store.KindOrder, o.ID, o); err != nil {
			return err
		}

		// 2. Insert items + deduct stock
		for _, item := range items {
			if err := store.PutAs(ctx, tx, store.KindOrderItem, item.ID, item); err != nil {
				return err
			}

			p, seen := res.Products[item.ProductID]
			if !seen {
				if missing[item.ProductID] {
					continue
				}
				loaded, err := store.GetAs[product.Product](ctx, tx, store.KindProduct, item.ProductID)
				if err != nil {
					return err
				}
				if loaded == nil {
					missing[item.ProductID] = true
					continue
				}
				p = *loaded
			}

			if p.TracksStock() {
				if policy == StockReject && *p.Stock < item.Quantity {
					return fmt.Errorf("%w: %q has %d left, %d requested",
						ErrInsufficientStock, p.Name, *p.Stock, item.Quantity)
				}
				stock := *p.Stock - item.Quantity
				p.Stock = &stock
				res.StockUnits += item.Quantity

				if err := store.PutAs(ctx, tx, store.KindProduct, p.ID, &p); err != nil {
					return err
				}
			}
			res.Products[item.ProductID] = p
		}

		result = res
		return nil
	})

	duration := timer.ObserveDuration()
	if err != nil {
		log.Warn("store: create order transaction aborted",
			zap.String("order_id", o.ID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	return result, nil
}

func (r *repository) UpdateStatusTx(ctx context.Context, id string, apply func(o *Order) error) (*Order, error) {
	var updated *Order
	err := r.store.Update(ctx, func(tx store.Tx) error {
		o, err := store.GetAs[Order](ctx, tx, store.KindOrder, id)
		if err != nil {
			return err
		}
		if o == nil {
			return ErrOrderNotFound
		}

		if err := apply(o); err != nil {
			return err
		}

		updated = o
		return store.PutAs(ctx, tx, store.KindOrder, o.ID, o)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindByID returns nil, nil when no order has the id.
func (r *repository) FindByID(ctx context.Context, id string) (*Order, error) {
	return store.GetAs[Order](ctx, r.store, store.KindOrder, id)
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	return store.ScanAs[Order](ctx, r.store, store.KindOrder)
}

func (r *repository) Items(ctx context.Context) ([]OrderItem, error) {
	return store.ScanAs[OrderItem](ctx, r.store, store.KindOrderItem)
}

func (r *repository) Products(ctx context.Context) (map[string]product.Product, error) {
	list, err := store.ScanAs[product.Product](ctx, r.store, store.KindProduct)
	if err != nil {
		return nil, err
	}

	out := make(map[string]product.Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}
