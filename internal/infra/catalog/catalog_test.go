package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dommenu "example.com/food-storefront/internal/domain/menu"
)

const sampleMenu = `
items:
  - id: 1
    name: "Gourmet Burger Deluxe"
    description: "Premium beef patty"
    price: "329"
    rating: 4.8
    category: Burgers
    calories: 650
  - id: 2
    name: "Mediterranean Salad Bowl"
    description: "Fresh greens"
    price: "279.50"
    rating: 4.9
    category: Healthy
    is_healthy: true
    calories: 320
`

func TestParse(t *testing.T) {
	items, err := Parse(strings.NewReader(sampleMenu))
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Gourmet Burger Deluxe", items[0].Name)
	require.True(t, items[1].Price.Equal(decimal.RequireFromString("279.50")))
	require.True(t, items[1].IsHealthy)
	require.Equal(t, int64(320), items[1].Calories)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"negative price": "items:\n  - id: 1\n    name: A\n    price: \"-1\"\n",
		"bad price":      "items:\n  - id: 1\n    name: A\n    price: abc\n",
		"missing name":   "items:\n  - id: 1\n    price: \"1\"\n",
		"zero id":        "items:\n  - id: 0\n    name: A\n    price: \"1\"\n",
		"duplicate id":   "items:\n  - id: 1\n    name: A\n    price: \"1\"\n  - id: 1\n    name: B\n    price: \"2\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			require.ErrorIs(t, err, dommenu.ErrInvalidItem)
		})
	}

	_, err := Parse(strings.NewReader("items:\n  - id: 1\n    colour: red\n"))
	require.Error(t, err)
}

func TestLoadFile_SeedMenu(t *testing.T) {
	items, err := LoadFile("../../../config/menu.yaml")
	require.NoError(t, err)
	require.Len(t, items, 8)
	require.Equal(t, "Chocolate Lava Cake", items[7].Name)
	require.True(t, items[3].Price.Equal(decimal.NewFromInt(649)))
}

func TestMemoryRepository(t *testing.T) {
	items, err := Parse(strings.NewReader(sampleMenu))
	require.NoError(t, err)
	repo := NewMemoryRepository(items)
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	list[0].Name = "changed"

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Gourmet Burger Deluxe", got.Name)

	_, err = repo.GetByID(ctx, 42)
	require.ErrorIs(t, err, dommenu.ErrItemNotFound)
}

type recordingUpserter struct {
	ids []int64
	err error
}

func (u *recordingUpserter) Upsert(_ context.Context, it *dommenu.Item) error {
	if u.err != nil {
		return u.err
	}
	u.ids = append(u.ids, it.ID)
	return nil
}

func TestSeed(t *testing.T) {
	items, err := Parse(strings.NewReader(sampleMenu))
	require.NoError(t, err)

	u := &recordingUpserter{}
	require.NoError(t, Seed(context.Background(), u, items))
	require.Equal(t, []int64{1, 2}, u.ids)

	boom := errors.New("boom")
	require.ErrorIs(t, Seed(context.Background(), &recordingUpserter{err: boom}, items), boom)
}
