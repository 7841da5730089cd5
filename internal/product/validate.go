package product

import (
	"net/url"
	"strings"

	"storefront-be/internal/apperror"

	"github.com/shopspring/decimal"
)

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return apperror.Validation("%s is required", field)
	}
	return nil
}

// validatePrice checks v is a non-negative decimal and returns it trimmed.
// The caller's spelling is kept ("10.00" stays "10.00").
func validatePrice(v string) (string, error) {
	v = strings.TrimSpace(v)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return "", apperror.Validation("price must be a decimal number")
	}
	if d.IsNegative() {
		return "", apperror.Validation("price must not be negative")
	}
	return v, nil
}

func validateImageURL(v string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(v))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperror.Validation("imageUrl must be an http(s) URL")
	}
	return nil
}

func validateType(t Type) error {
	if !t.Valid() {
		return apperror.Validation("type must be %q or %q", TypePhysical, TypeDigital)
	}
	return nil
}

func validateStock(stock *int) error {
	if stock != nil && *stock < 0 {
		return apperror.Validation("stock must not be negative")
	}
	return nil
}

func (c CreateProductCommand) validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", c.Name},
		{"description", c.Description},
		{"price", c.Price},
		{"imageUrl", c.ImageURL},
		{"ageRange", c.AgeRange},
		{"category", c.Category},
	} {
		if err := requireText(f.name, f.value); err != nil {
			return err
		}
	}
	if _, err := validatePrice(c.Price); err != nil {
		return err
	}
	if err := validateImageURL(c.ImageURL); err != nil {
		return err
	}
	if err := validateType(c.Type); err != nil {
		return err
	}
	if c.Type == TypePhysical {
		return validateStock(c.Stock)
	}
	return nil
}

func (c UpdateProductCommand) validate() error {
	texts := []struct {
		name  string
		value *string
	}{
		{"name", c.Name},
		{"description", c.Description},
		{"ageRange", c.AgeRange},
		{"category", c.Category},
	}
	for _, f := range texts {
		if f.value == nil {
			continue
		}
		if err := requireText(f.name, *f.value); err != nil {
			return err
		}
	}
	if c.Price != nil {
		if _, err := validatePrice(*c.Price); err != nil {
			return err
		}
	}
	if c.ImageURL != nil {
		if err := validateImageURL(*c.ImageURL); err != nil {
			return err
		}
	}
	if c.Type != nil {
		if err := validateType(*c.Type); err != nil {
			return err
		}
	}
	if c.ClearStock && c.Stock != nil {
		return apperror.Validation("stock and clearStock are mutually exclusive")
	}
	return validateStock(c.Stock)
}
