package httpapi

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/product"

	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Price       json.Number  `json:"price" binding:"required"`
	ImageURL    string       `json:"imageUrl" binding:"required"`
	Type        product.Type `json:"type" binding:"required"`
	AgeRange    string       `json:"ageRange" binding:"required"`
	Category    string       `json:"category" binding:"required"`
	Stock       *int         `json:"stock"`
	IsActive    *bool        `json:"isActive"`
}

type updateProductRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Price       *json.Number  `json:"price"`
	ImageURL    *string       `json:"imageUrl"`
	Type        *product.Type `json:"type"`
	AgeRange    *string       `json:"ageRange"`
	Category    *string       `json:"category"`
	Stock       *int          `json:"stock"`
	ClearStock  bool          `json:"clearStock"`
	IsActive    *bool         `json:"isActive"`
}

func (h *Handler) ListProducts(c *gin.Context) {
	filter := product.Filter{
		Type:     product.Type(c.Query("type")),
		Category: c.Query("category"),
		AgeRange: c.Query("ageRange"),
	}

	products, err := h.products.ListActive(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) ProductFacets(c *gin.Context) {
	facets, err := h.products.Facets(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.products.Create(c.Request.Context(), product.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.String(),
		ImageURL:    req.ImageURL,
		Type:        req.Type,
		AgeRange:    req.AgeRange,
		Category:    req.Category,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cmd := product.UpdateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Type:        req.Type,
		AgeRange:    req.AgeRange,
		Category:    req.Category,
		Stock:       req.Stock,
		ClearStock:  req.ClearStock,
		IsActive:    req.IsActive,
	}
	if req.Price != nil {
		price := req.Price.String()
		cmd.Price = &price
	}

	p, err := h.products.Update(c.Request.Context(), c.Param("id"), cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
