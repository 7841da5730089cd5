package order

import (
	"context"
	"errors"
	"net/mail"
	"sort"
	"strings"
	"time"

	"storefront-be/internal/apperror"
	"storefront-be/internal/events"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderWithItems, error)
	GetOrders(ctx context.Context) ([]OrderWithItems, error)
	GetUserOrders(ctx context.Context, userID string) ([]OrderWithItems, error)
	GetOrder(ctx context.Context, id string) (*OrderWithItems, error)
	UpdateOrderStatus(ctx context.Context, id string, status Status) (*Order, error)
	Stats(ctx context.Context) (*Stats, error)
}

type Options struct {
	StockPolicy  StockPolicy
	StatusPolicy StatusPolicy
	Publisher    events.Publisher
}

type service struct {
	repo         Repository
	stockPolicy  StockPolicy
	statusPolicy StatusPolicy
	publisher    events.Publisher
	now          func() time.Time
}

func NewService(repo Repository, opts Options) Service {
	s := &service{
		repo:         repo,
		stockPolicy:  opts.StockPolicy,
		statusPolicy: opts.StatusPolicy,
		publisher:    opts.Publisher,
		now:          time.Now,
	}
	if s.stockPolicy == "" {
		s.stockPolicy = StockAllowNegative
	}
	if s.statusPolicy == "" {
		s.statusPolicy = StatusAny
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	return s
}

func (s *service) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderWithItems, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
	)

	/* ---------- VALIDATION ---------- */

	if err := cmd.validate(s.statusPolicy); err != nil {
		log.Warn("invalid order input", zap.Error(err))
		metrics.RecordOrderRejected("validation")
		return nil, err
	}

	status := cmd.Status
	if status == "" {
		status = StatusPending
	}

	/* ---------- BUILD ---------- */

	o := &Order{
		ID:              s.repo.NewID(),
		UserID:          cmd.UserID,
		CustomerName:    strings.TrimSpace(cmd.CustomerName),
		CustomerEmail:   strings.TrimSpace(cmd.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(cmd.CustomerPhone),
		ShippingAddress: strings.TrimSpace(cmd.ShippingAddress),
		Total:           strings.TrimSpace(cmd.Total),
		Status:          status,
		CreatedAt:       s.now(),
	}

	items := make([]OrderItem, 0, len(cmd.Items))
	for i, in := range cmd.Items {
		items = append(items, OrderItem{
			ID:        s.repo.NewID(),
			OrderID:   o.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Price:     strings.TrimSpace(in.Price),
			Line:      i + 1,
		})
	}

	/* ---------- PERSIST ---------- */

	res, err := s.repo.CreateOrderTx(ctx, o, items, s.stockPolicy)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.RecordOrderRejected("insufficient_stock")
		} else {
			metrics.RecordOrderRejected("store")
			log.Error("failed to create order", zap.Error(err))
		}
		return nil, err
	}

	s.warnPriceMismatch(log, items, res.Products)

	metrics.RecordOrderCreated(o.UserID == nil, res.StockUnits)
	s.publish(ctx, events.OrderCreated, o, len(items))

	log.Info("order created",
		zap.String("order_id", o.ID),
		zap.Int("items", len(items)),
		zap.Int("stock_units", res.StockUnits),
		zap.Bool("guest", o.UserID == nil),
	)

	return compose(o, items, res.Products), nil
}

// warnPriceMismatch flags items whose submitted price differs from the
// catalog. The submitted price is kept either way.
func (s *service) warnPriceMismatch(log *zap.Logger, items []OrderItem, products map[string]product.Product) {
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		submitted, _ := decimal.NewFromString(item.Price)
		catalog, err := decimal.NewFromString(p.Price)
		if err != nil || submitted.Equal(catalog) {
			continue
		}
		log.Warn("order item price differs from catalog",
			zap.String("product_id", p.ID),
			zap.String("submitted", item.Price),
			zap.String("catalog", p.Price),
		)
	}
}

func (s *service) GetOrders(ctx context.Context) ([]OrderWithItems, error) {
	return s.listOrders(ctx, func(*Order) bool { return true })
}

// GetUserOrders returns the orders placed by userID. Guest orders never match.
func (s *service) GetUserOrders(ctx context.Context, userID string) ([]OrderWithItems, error) {
	return s.listOrders(ctx, func(o *Order) bool {
		return o.UserID != nil && *o.UserID == userID
	})
}

func (s *service) listOrders(ctx context.Context, keep func(*Order) bool) ([]OrderWithItems, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetOrders"),
	)

	orders, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	allItems, err := s.repo.Items(ctx)
	if err != nil {
		log.Error("failed to list order items", zap.Error(err))
		return nil, err
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		log.Error("failed to list products", zap.Error(err))
		return nil, err
	}

	byOrder := make(map[string][]OrderItem, len(orders))
	for _, item := range allItems {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})

	out := make([]OrderWithItems, 0, len(orders))
	for i := range orders {
		if !keep(&orders[i]) {
			continue
		}
		out = append(out, *compose(&orders[i], byOrder[orders[i].ID], products))
	}
	return out, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*OrderWithItems, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	allItems, err := s.repo.Items(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}

	var items []OrderItem
	for _, item := range allItems {
		if item.OrderID == id {
			items = append(items, item)
		}
	}
	return compose(o, items, products), nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, id string, status Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.String("order_id", id),
	)

	var from Status
	updated, err := s.repo.UpdateStatusTx(ctx, id, func(o *Order) error {
		if err := s.statusPolicy.checkTransition(o.Status, status); err != nil {
			return err
		}
		from = o.Status
		o.Status = status
		return nil
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, ErrInvalidTransition) {
			log.Warn("status update rejected", zap.String("status", string(status)), zap.Error(err))
		} else {
			log.Error("failed to update order status", zap.Error(err))
		}
		return nil, err
	}

	metrics.RecordStatusChange(string(status))
	s.publish(ctx, events.OrderStatusChanged, updated, 0)

	log.Info("order status updated",
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)
	return updated, nil
}

// Stats computes the admin dashboard figures. Revenue sums every order total.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalOrders: len(orders)}
	revenue := decimal.Zero
	for _, o := range orders {
		if o.Status == StatusPending {
			stats.PendingOrders++
		}
		total, err := decimal.NewFromString(o.Total)
		if err != nil {
			logger.FromCtx(ctx).Warn("order total is not a decimal",
				zap.String("order_id", o.ID),
				zap.String("total", o.Total),
			)
			continue
		}
		revenue = revenue.Add(total)
	}
	for _, p := range products {
		if p.IsActive {
			stats.ActiveProducts++
		}
	}
	stats.TotalRevenue = revenue.String()
	return stats, nil
}

func (s *service) publish(ctx context.Context, eventType string, o *Order, itemCount int) {
	err := s.publisher.Publish(ctx, events.Event{
		EventType:  eventType,
		OrderID:    o.ID,
		Status:     string(o.Status),
		Total:      o.Total,
		ItemCount:  itemCount,
		OccurredAt: s.now(),
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

// compose joins an order with its items, dropping items whose product no
// longer exists.
func compose(o *Order, items []OrderItem, products map[string]product.Product) *OrderWithItems {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Line < items[j].Line })

	out := &OrderWithItems{Order: *o, Items: make([]ItemView, 0, len(items))}
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		out.Items = append(out.Items, ItemView{OrderItem: item, Product: p})
	}
	return out
}

// validate checks the checkout input. An initial status outside the
// lifecycle is only rejected under StatusForward.
func (c CreateOrderCommand) validate(policy StatusPolicy) error {
	if len(c.Items) == 0 {
		return apperror.Validation("order must contain at least one item")
	}
	for i, item := range c.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return apperror.Validation("item %d: productId is required", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.Validation("item %d: quantity must be positive", i+1)
		}
		if _, err := decimal.NewFromString(strings.TrimSpace(item.Price)); err != nil {
			return apperror.Validation("item %d: price must be a decimal number", i+1)
		}
	}

	for _, f := range []struct{ name, value string }{
		{"customerName", c.CustomerName},
		{"customerEmail", c.CustomerEmail},
		{"customerPhone", c.CustomerPhone},
		{"shippingAddress", c.ShippingAddress},
	} {
		if strings.TrimSpace(f.value) == "" {
			return apperror.Validation("%s is required", f.name)
		}
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(c.CustomerEmail)); err != nil {
		return apperror.Validation("customerEmail is not a valid email address")
	}
	if _, err := decimal.NewFromString(strings.TrimSpace(c.Total)); err != nil {
		return apperror.Validation("total must be a decimal number")
	}
	if c.Status != "" && policy == StatusForward && !c.Status.Known() {
		return apperror.Validation("unknown status %q", c.Status)
	}
	return nil
}
