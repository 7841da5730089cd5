package product

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	ListActive(ctx context.Context, filter Filter) ([]Product, error)
	Facets(ctx context.Context) (*Facets, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, cmd CreateProductCommand) (*Product, error)
	Update(ctx context.Context, id string, cmd UpdateProductCommand) (*Product, error)
	Delete(ctx context.Context, id string) error
	SeedCatalog(ctx context.Context) (int, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) ListActive(ctx context.Context, filter Filter) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListActive"),
	)

	start := time.Now()

	all, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to fetch product list", zap.Error(err))
		return nil, err
	}

	out := make([]Product, 0, len(all))
	for i := range all {
		if all[i].IsActive && filter.Match(&all[i]) {
			out = append(out, all[i])
		}
	}
	sortProducts(out)

	log.Debug("list active products success",
		zap.Int("count", len(out)),
		zap.String("type", string(filter.Type)),
		zap.String("category", filter.Category),
		zap.String("age_range", filter.AgeRange),
		zap.Duration("duration", time.Since(start)),
	)

	return out, nil
}

func (s *service) Facets(ctx context.Context) (*Facets, error) {
	active, err := s.ListActive(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	categories := map[string]struct{}{}
	ageRanges := map[string]struct{}{}
	types := map[string]struct{}{}
	for _, p := range active {
		categories[p.Category] = struct{}{}
		ageRanges[p.AgeRange] = struct{}{}
		types[string(p.Type)] = struct{}{}
	}

	f := &Facets{
		Categories: sortedKeys(categories),
		AgeRanges:  sortedKeys(ageRanges),
		Types:      make([]Type, 0, len(types)),
	}
	for _, t := range sortedKeys(types) {
		f.Types = append(f.Types, Type(t))
	}
	return f, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) Create(ctx context.Context, cmd CreateProductCommand) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	if err := cmd.validate(); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return nil, err
	}

	price, _ := validatePrice(cmd.Price)
	p := &Product{
		ID:          s.repo.NewID(),
		Name:        strings.TrimSpace(cmd.Name),
		Description: cmd.Description,
		Price:       price,
		ImageURL:    strings.TrimSpace(cmd.ImageURL),
		Type:        cmd.Type,
		AgeRange:    cmd.AgeRange,
		Category:    cmd.Category,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	if cmd.IsActive != nil {
		p.IsActive = *cmd.IsActive
	}
	if p.Type == TypePhysical && cmd.Stock != nil {
		stock := *cmd.Stock
		p.Stock = &stock
	}

	if err := s.repo.Save(ctx, p); err != nil {
		log.Error("failed to save product", zap.Error(err))
		return nil, err
	}

	log.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("type", string(p.Type)),
	)
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, cmd UpdateProductCommand) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Update"),
		zap.String("product_id", id),
	)

	if err := cmd.validate(); err != nil {
		log.Warn("invalid product update", zap.Error(err))
		return nil, err
	}

	/* ---------- MERGE ---------- */

	p, err := s.repo.UpdateTx(ctx, id, func(p *Product) error {
		cmd.apply(p)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		log.Error("failed to save product", zap.Error(err))
		return nil, err
	}

	log.Info("product updated")
	return p, nil
}

// apply merges the provided fields into p. Fields left nil are kept.
func (c UpdateProductCommand) apply(p *Product) {
	if c.Name != nil {
		p.Name = strings.TrimSpace(*c.Name)
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Price != nil {
		p.Price, _ = validatePrice(*c.Price)
	}
	if c.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*c.ImageURL)
	}
	if c.Type != nil {
		p.Type = *c.Type
	}
	if c.AgeRange != nil {
		p.AgeRange = *c.AgeRange
	}
	if c.Category != nil {
		p.Category = *c.Category
	}
	if c.IsActive != nil {
		p.IsActive = *c.IsActive
	}
	switch {
	case c.ClearStock:
		p.Stock = nil
	case c.Stock != nil:
		stock := *c.Stock
		p.Stock = &stock
	}
	if p.Type == TypeDigital {
		p.Stock = nil
	}
}

func (s *service) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to delete product",
			zap.String("product_id", id),
			zap.Error(err),
		)
		return err
	}
	if !removed {
		return ErrProductNotFound
	}

	logger.FromCtx(ctx).Info("product deleted", zap.String("product_id", id))
	return nil
}

func sortProducts(ps []Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].Name < ps[j].Name
	})
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
