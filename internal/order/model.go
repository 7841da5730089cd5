package order

import (
	"time"

	"storefront-be/internal/product"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

// statusRank orders the fulfilment lifecycle.
var statusRank = map[Status]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusShipped:   2,
	StatusDelivered: 3,
}

func (s Status) Known() bool {
	_, ok := statusRank[s]
	return ok
}

type Order struct {
	ID              string    `json:"id"`
	UserID          *string   `json:"userId"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	CustomerPhone   string    `json:"customerPhone"`
	ShippingAddress string    `json:"shippingAddress"`
	Total           string    `json:"total"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// OrderItem is one line of an order. Price is the unit price as submitted at
// checkout.
type OrderItem struct {
	ID        string `json:"id"`
	OrderID   string `json:"orderId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Line      int    `json:"line"`
}

// ItemView is an order item together with the product as it is now.
type ItemView struct {
	OrderItem
	Product product.Product `json:"product"`
}

type OrderWithItems struct {
	Order
	Items []ItemView `json:"items"`
}

type Stats struct {
	TotalOrders    int    `json:"totalOrders"`
	PendingOrders  int    `json:"pendingOrders"`
	TotalRevenue   string `json:"totalRevenue"`
	ActiveProducts int    `json:"activeProducts"`
}

type ItemInput struct {
	ProductID string
	Quantity  int
	Price     string
}

type CreateOrderCommand struct {
	UserID          *string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Total           string
	Status          Status
	Items           []ItemInput
}
