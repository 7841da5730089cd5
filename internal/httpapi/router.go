// Package httpapi exposes the catalog, order and auth operations as a JSON
// API on a gin router.
package httpapi

import (
	"net/http"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	products     product.Service
	orders       order.Service
	users        user.Service
	gate         auth.Gate
	tokenTTL     time.Duration
	secureCookie bool
	attachUser   bool
}

type Options struct {
	TokenTTL time.Duration
	// SecureCookie marks the access_token cookie Secure.
	SecureCookie bool
	// AttachOrderUser records the signed-in caller as the order's userId.
	// Off, every order is stored as a guest order.
	AttachOrderUser bool
}

func NewHandler(products product.Service, orders order.Service, users user.Service, gate auth.Gate, opts Options) *Handler {
	return &Handler{
		products:     products,
		orders:       orders,
		users:        users,
		gate:         gate,
		tokenTTL:     opts.TokenTTL,
		secureCookie: opts.SecureCookie,
		attachUser:   opts.AttachOrderUser,
	}
}

// NewRouter registers every route. The caller wraps the engine with the
// net/http middleware chain that resolves the current user.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())

	r.GET("/health", h.Health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.requireUser(), h.Me)

	products := api.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/facets", h.ProductFacets)
	products.GET("/:id", h.GetProduct)
	products.POST("", h.requireRole(user.RoleAdmin), h.CreateProduct)
	products.PUT("/:id", h.requireRole(user.RoleAdmin), h.UpdateProduct)
	products.DELETE("/:id", h.requireRole(user.RoleAdmin), h.DeleteProduct)

	orders := api.Group("/orders")
	orders.GET("", h.requireUser(), h.ListOrders)
	orders.GET("/stats", h.requireRole(user.RoleAdmin), h.OrderStats)
	orders.GET("/:id", h.requireRole(user.RoleAdmin), h.GetOrder)
	orders.POST("", h.CreateOrder)
	orders.PUT("/:id/status", h.requireRole(user.RoleAdmin), h.UpdateOrderStatus)

	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.CurrentUser(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (h *Handler) requireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := middleware.CurrentUser(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !h.gate.RequireRole(u, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *user.User {
	u, _ := middleware.CurrentUser(c.Request.Context())
	return u
}
