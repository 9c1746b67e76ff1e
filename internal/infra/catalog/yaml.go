package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	dommenu "example.com/food-storefront/internal/domain/menu"
)

type menuFile struct {
	Items []itemYAML `yaml:"items"`
}

// prices stay strings in the file so they decode without float rounding
type itemYAML struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       string  `yaml:"price"`
	Rating      float64 `yaml:"rating"`
	Image       string  `yaml:"image"`
	Category    string  `yaml:"category"`
	IsHealthy   bool    `yaml:"is_healthy"`
	Calories    int64   `yaml:"calories"`
}

func LoadFile(path string) ([]*dommenu.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) ([]*dommenu.Item, error) {
	var doc menuFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}

	seen := make(map[int64]bool, len(doc.Items))
	items := make([]*dommenu.Item, 0, len(doc.Items))
	for i, raw := range doc.Items {
		it, err := raw.toItem()
		if err != nil {
			return nil, fmt.Errorf("menu item %d: %w", i, err)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("menu item %d: duplicate id %d: %w", i, it.ID, dommenu.ErrInvalidItem)
		}
		seen[it.ID] = true
		items = append(items, it)
	}
	return items, nil
}

func (y itemYAML) toItem() (*dommenu.Item, error) {
	if y.ID <= 0 {
		return nil, fmt.Errorf("id must be positive: %w", dommenu.ErrInvalidItem)
	}
	name := strings.TrimSpace(y.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", dommenu.ErrInvalidItem)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(y.Price))
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", y.Price, dommenu.ErrInvalidItem)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price %s is negative: %w", price, dommenu.ErrInvalidItem)
	}
	return &dommenu.Item{
		ID:          y.ID,
		Name:        name,
		Description: y.Description,
		Price:       price,
		Rating:      y.Rating,
		Image:       y.Image,
		Category:    y.Category,
		IsHealthy:   y.IsHealthy,
		Calories:    y.Calories,
	}, nil
}

type Upserter interface {
	Upsert(ctx context.Context, it *dommenu.Item) error
}

// Seed writes every item to the database, replacing rows with the same id.
func Seed(ctx context.Context, repo Upserter, items []*dommenu.Item) error {
	for _, it := range items {
		if err := repo.Upsert(ctx, it); err != nil {
			return fmt.Errorf("seed menu item %d: %w", it.ID, err)
		}
	}
	return nil
}
