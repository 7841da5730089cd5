package product

import "time"

type Type string

const (
	TypePhysical Type = "physical"
	TypeDigital  Type = "digital"
)

func (t Type) Valid() bool {
	return t == TypePhysical || t == TypeDigital
}

// Product is a catalog entry. Stock is nil for digital products, which are
// always available. Price is a decimal string.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	Type        Type      `json:"type"`
	AgeRange    string    `json:"ageRange"`
	Category    string    `json:"category"`
	Stock       *int      `json:"stock"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TracksStock reports whether orders decrement this product's stock.
func (p *Product) TracksStock() bool {
	return p.Type == TypePhysical && p.Stock != nil
}

// Filter narrows the active listing. Empty fields match everything.
type Filter struct {
	Type     Type
	Category string
	AgeRange string
}

func (f Filter) Match(p *Product) bool {
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.AgeRange != "" && p.AgeRange != f.AgeRange {
		return false
	}
	return true
}

type Facets struct {
	Categories []string `json:"categories"`
	AgeRanges  []string `json:"ageRanges"`
	Types      []Type   `json:"types"`
}

type CreateProductCommand struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
	Type        Type
	AgeRange    string
	Category    string
	Stock       *int
	IsActive    *bool
}

// UpdateProductCommand carries the fields to change. Nil fields are left as
// they are; ClearStock sets stock to null.
type UpdateProductCommand struct {
	Name        *string
	Description *string
	Price       *string
	ImageURL    *string
	Type        *Type
	AgeRange    *string
	Category    *string
	Stock       *int
	ClearStock  bool
	IsActive    *bool
}
