package httpapi

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/order"
	"storefront-be/internal/user"

	"github.com/gin-gonic/gin"
)

type orderItemRequest struct {
	ProductID string      `json:"productId" binding:"required"`
	Quantity  int         `json:"quantity" binding:"required"`
	Price     json.Number `json:"price" binding:"required"`
}

type createOrderRequest struct {
	CustomerName    string             `json:"customerName" binding:"required"`
	CustomerEmail   string             `json:"customerEmail" binding:"required"`
	CustomerPhone   string             `json:"customerPhone" binding:"required"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
	Total           json.Number        `json:"total" binding:"required"`
	Status          order.Status       `json:"status"`
	Items           []orderItemRequest `json:"items" binding:"required,dive"`
}

type updateStatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// ListOrders returns every order to admins and the caller's own orders to
// everyone else.
func (h *Handler) ListOrders(c *gin.Context) {
	u := currentUser(c)

	var (
		orders []order.OrderWithItems
		err    error
	)
	if h.gate.RequireRole(u, user.RoleAdmin) {
		orders, err = h.orders.GetOrders(c.Request.Context())
	} else {
		orders, err = h.orders.GetUserOrders(c.Request.Context(), u.ID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) OrderStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreateOrder accepts guest checkouts. A signed-in caller's id is attached
// to the order.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cmd := order.CreateOrderCommand{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Total:           req.Total.String(),
		Status:          req.Status,
		Items:           make([]order.ItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, order.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		})
	}
	if u := currentUser(c); u != nil && h.attachUser {
		id := u.ID
		cmd.UserID = &id
	}

	created, err := h.orders.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
