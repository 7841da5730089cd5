package user

import (
	"context"
	"sort"
	"strings"

	"storefront-be/internal/logger"
	"storefront-be/internal/store"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

type repository struct {
	store store.Store
}

func NewRepository(s store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	log := logger.FromCtx(ctx)

	created := *u
	created.ID = r.store.NewID()

	if err := store.PutAs(ctx, r.store, store.KindUser, created.ID, &created); err != nil {
		log.Error("store: failed to insert user",
			zap.String("email", u.Email),
			zap.Error(err),
		)
		return nil, err
	}

	return &created, nil
}

// FindByID returns nil, nil when no user has the id.
func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	return store.GetAs[User](ctx, r.store, store.KindUser, id)
}

// FindByEmail returns the first user (by creation time) whose email matches
// case-insensitively, or nil, nil when none does.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, err := store.ScanAs[User](ctx, r.store, store.KindUser)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}
