package cart

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func salad() CatalogItem {
	return CatalogItem{ID: 2, Name: "Salad", Price: decimal.NewFromInt(279), Image: "x"}
}

func burger() CatalogItem {
	return CatalogItem{ID: 1, Name: "Burger", Price: decimal.NewFromInt(329), Image: "y"}
}

func TestAdd_SameIDIncrementsQuantity(t *testing.T) {
	c := New("s1")

	c.Add(salad())
	c.Add(salad())

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, int64(2), items[0].Quantity)
	require.True(t, decimal.NewFromInt(558).Equal(c.Subtotal()))
	require.Equal(t, int64(2), c.TotalItems())
}

func TestAdd_RepeatedCallsMatchCount(t *testing.T) {
	c := New("s1")
	for i := 0; i < 17; i++ {
		c.Add(burger())
	}
	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, int64(17), items[0].Quantity)
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	c := New("s1")
	c.Add(salad())
	c.Add(burger())
	c.Add(salad())

	items := c.Items()
	require.Equal(t, int64(2), items[0].ID)
	require.Equal(t, int64(1), items[1].ID)
}

func TestAdd_CapturesFieldsAtAddTime(t *testing.T) {
	c := New("s1")
	item := salad()
	c.Add(item)

	item.Name = "Renamed"
	item.Price = decimal.NewFromInt(1)
	c.Add(item)

	items := c.Items()
	require.Equal(t, "Salad", items[0].Name)
	require.True(t, decimal.NewFromInt(279).Equal(items[0].Price))
}

func TestAdd_NegativePriceClampedToZero(t *testing.T) {
	c := New("s1")
	c.Add(CatalogItem{ID: 9, Name: "Broken", Price: decimal.NewFromInt(-5)})

	require.True(t, c.Subtotal().IsZero())
}

func TestRemove(t *testing.T) {
	c := New("s1")
	c.Add(salad())
	c.Add(burger())

	c.Remove(2)
	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].ID)

	// absent id is a no-op
	c.Remove(42)
	require.Len(t, c.Items(), 1)
}

func TestUpdateQuantity(t *testing.T) {
	c := New("s1")
	c.Add(salad())

	c.UpdateQuantity(2, 5)
	require.Equal(t, int64(5), c.TotalItems())
	require.True(t, decimal.NewFromInt(1395).Equal(c.Subtotal()))

	c.UpdateQuantity(42, 3)
	require.Equal(t, int64(5), c.TotalItems())
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int64{0, -1, -100} {
		withUpdate := New("a")
		withUpdate.Add(salad())
		withUpdate.Add(burger())
		withUpdate.UpdateQuantity(2, q)

		withRemove := New("b")
		withRemove.Add(salad())
		withRemove.Add(burger())
		withRemove.Remove(2)

		require.Equal(t, withRemove.Items(), withUpdate.Items(), "quantity %d", q)
	}
}

func TestClear_Idempotent(t *testing.T) {
	c := New("s1")
	c.Add(salad())
	c.Add(burger())

	c.Clear()
	c.Clear()

	require.Empty(t, c.Items())
	require.True(t, c.IsEmpty())
	require.Equal(t, int64(0), c.TotalItems())
	require.True(t, c.Subtotal().IsZero())
}

func TestTotals_AfterInterleavedMutations(t *testing.T) {
	c := New("s1")
	require.Equal(t, int64(0), c.TotalItems())

	c.Add(salad())
	c.Add(burger())
	c.Add(burger())
	require.Equal(t, int64(3), c.TotalItems())
	require.True(t, decimal.NewFromInt(279+2*329).Equal(c.Subtotal()))

	c.UpdateQuantity(1, 4)
	require.Equal(t, int64(5), c.TotalItems())
	require.True(t, decimal.NewFromInt(279+4*329).Equal(c.Subtotal()))

	c.Remove(2)
	require.Equal(t, int64(4), c.TotalItems())
	require.True(t, decimal.NewFromInt(4*329).Equal(c.Subtotal()))

	c.UpdateQuantity(1, 0)
	require.Equal(t, int64(0), c.TotalItems())
	require.True(t, c.IsEmpty())
}

func TestTotals_DecimalPrices(t *testing.T) {
	c := New("s1")
	c.Add(CatalogItem{ID: 1, Name: "Tea", Price: decimal.RequireFromString("0.10")})
	c.UpdateQuantity(1, 3)

	require.Equal(t, "0.3", c.Subtotal().String())
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := New("s1")
	c.Add(salad())

	items := c.Items()
	items[0].Quantity = 99

	require.Equal(t, int64(1), c.Items()[0].Quantity)
}

func TestRestore_DropsInvalidAndMergesDuplicates(t *testing.T) {
	c := New("s1")
	c.Add(burger())

	c.Restore([]LineItem{
		{ID: 2, Name: "Salad", Price: decimal.NewFromInt(279), Quantity: 1},
		{ID: 3, Name: "Ghost", Price: decimal.NewFromInt(10), Quantity: 0},
		{ID: 2, Name: "Salad", Price: decimal.NewFromInt(279), Quantity: 2},
	})

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, int64(2), items[0].ID)
	require.Equal(t, int64(3), items[0].Quantity)
	require.Equal(t, int64(3), c.TotalItems())
}

func TestContents_TotalsMatchLinesUnderConcurrentMutation(t *testing.T) {
	c := New("s1")
	c.Add(salad())

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				c.Add(burger())
				c.Remove(burger().ID)
			}
		}
	}()

	for i := 0; i < 500; i++ {
		got := c.Contents()
		var count int64
		sum := decimal.Zero
		for _, l := range got.Items {
			count += l.Quantity
			sum = sum.Add(l.Total())
		}
		require.Equal(t, count, got.TotalItems)
		require.True(t, sum.Equal(got.Subtotal), "subtotal %s does not match lines %s", got.Subtotal, sum)
	}
	close(stop)
	wg.Wait()
}
