package menu

import (
	"strings"

	"github.com/shopspring/decimal"

	domcart "example.com/food-storefront/internal/domain/cart"
)

const CategoryAll = "All"

type Item struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Rating      float64
	Image       string
	Category    string
	IsHealthy   bool
	Calories    int64
}

func (it *Item) CatalogItem() domcart.CatalogItem {
	return domcart.CatalogItem{
		ID:    it.ID,
		Name:  it.Name,
		Price: it.Price,
		Image: it.Image,
	}
}

type Filter struct {
	Category string
	Search   string
}

// Matches reports whether the item belongs to the category (empty or "All"
// matches every item) and contains the search text in its name or
// description, ignoring case.
func (f Filter) Matches(it *Item) bool {
	if f.Category != "" && f.Category != CategoryAll && it.Category != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Name), q) ||
		strings.Contains(strings.ToLower(it.Description), q)
}
