package report

import (
	"testing"

	"github.com/shopspring/decimal"
)

func uintPtr(v uint) *uint { return &v }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Two orders sharing a product, one ad-hoc item without a product reference.
func sampleItems() []LineItem {
	return []LineItem{
		{ProductID: uintPtr(1), Name: "Cuaderno", UnitPrice: dec("10"), Quantity: 2, OrderID: 101},
		{ProductID: uintPtr(2), Name: "Lápiz", UnitPrice: dec("5"), Quantity: 1, OrderID: 101},
		{ProductID: uintPtr(1), Name: "Cuaderno", UnitPrice: dec("10"), Quantity: 3, OrderID: 102},
		{ProductID: nil, Name: "Personalizado", UnitPrice: dec("99"), Quantity: 4, OrderID: 102},
	}
}

func TestAggregate(t *testing.T) {
	agg := Aggregate(sampleItems())
	rows := agg.Rows(SortByQuantity, DefaultTop)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.ProductID != 1 || first.TotalQuantity != 5 || !first.TotalRevenue.Equal(dec("50")) {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.OrderCount != 2 {
		t.Errorf("expected product 1 in 2 orders, got %d", first.OrderCount)
	}
	if !first.AvgUnitPrice.Equal(dec("10")) {
		t.Errorf("expected avg unit price 10, got %s", first.AvgUnitPrice)
	}

	second := rows[1]
	if second.ProductID != 2 || second.TotalQuantity != 1 || !second.TotalRevenue.Equal(dec("5")) {
		t.Errorf("unexpected second row: %+v", second)
	}
	if second.OrderCount != 1 {
		t.Errorf("expected product 2 in 1 order, got %d", second.OrderCount)
	}
}

func TestAggregateStats(t *testing.T) {
	stats := Aggregate(sampleItems()).Stats()

	if stats.TotalUnitsSold != 6 {
		t.Errorf("expected 6 units sold, got %d", stats.TotalUnitsSold)
	}
	if !stats.TotalRevenue.Equal(dec("55")) {
		t.Errorf("expected total revenue 55, got %s", stats.TotalRevenue)
	}
	if stats.DistinctProductsSold != 2 {
		t.Errorf("expected 2 distinct products, got %d", stats.DistinctProductsSold)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("expected 2 orders, got %d", stats.TotalOrders)
	}
	if !stats.AvgRevenuePerOrder.Equal(dec("27.5")) {
		t.Errorf("expected avg revenue per order 27.5, got %s", stats.AvgRevenuePerOrder)
	}
	if !stats.AvgRevenuePerProduct.Equal(dec("27.5")) {
		t.Errorf("expected avg revenue per product 27.5, got %s", stats.AvgRevenuePerProduct)
	}

	if len(stats.TopByQuantity) != 2 || stats.TopByQuantity[0].ProductID != 1 {
		t.Errorf("unexpected top by quantity: %+v", stats.TopByQuantity)
	}
	if len(stats.TopByRevenue) != 2 || stats.TopByRevenue[0].ProductID != 1 {
		t.Errorf("unexpected top by revenue: %+v", stats.TopByRevenue)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := Aggregate(nil)

	if rows := agg.Rows(SortByQuantity, DefaultTop); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}

	stats := agg.Stats()
	if stats.TotalUnitsSold != 0 || stats.DistinctProductsSold != 0 || stats.TotalOrders != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	if !stats.TotalRevenue.IsZero() || !stats.AvgRevenuePerOrder.IsZero() || !stats.AvgRevenuePerProduct.IsZero() {
		t.Errorf("expected zero amounts, got %+v", stats)
	}
}

func TestAggregateSkipsNegativeValues(t *testing.T) {
	agg := Aggregate([]LineItem{
		{ProductID: uintPtr(1), Name: "A", UnitPrice: dec("-3"), Quantity: 2, OrderID: 1},
		{ProductID: uintPtr(1), Name: "A", UnitPrice: dec("4"), Quantity: -5, OrderID: 2},
		{ProductID: uintPtr(1), Name: "A", UnitPrice: dec("4"), Quantity: 1, OrderID: 3},
	})

	rows := agg.Rows(SortByQuantity, DefaultTop)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	// Negative price contributes zero revenue but keeps the quantity;
	// negative quantity contributes nothing.
	if rows[0].TotalQuantity != 3 {
		t.Errorf("expected quantity 3, got %d", rows[0].TotalQuantity)
	}
	if !rows[0].TotalRevenue.Equal(dec("4")) {
		t.Errorf("expected revenue 4, got %s", rows[0].TotalRevenue)
	}
	// Every item still counts towards the orders it appeared in
	if rows[0].OrderCount != 3 {
		t.Errorf("expected 3 orders, got %d", rows[0].OrderCount)
	}
}

func TestAggregateFirstNameWins(t *testing.T) {
	agg := Aggregate([]LineItem{
		{ProductID: uintPtr(7), Name: "", UnitPrice: dec("1"), Quantity: 1, OrderID: 1},
		{ProductID: uintPtr(7), Name: "Primero", UnitPrice: dec("1"), Quantity: 1, OrderID: 1},
		{ProductID: uintPtr(7), Name: "Segundo", UnitPrice: dec("1"), Quantity: 1, OrderID: 1},
	})

	rows := agg.Rows(SortByQuantity, DefaultTop)
	if rows[0].Name != "Primero" {
		t.Errorf("expected first non-empty name to win, got %q", rows[0].Name)
	}
}

func TestRowsSortAndLimit(t *testing.T) {
	// Product 3 sells more units, product 9 earns more revenue.
	items := []LineItem{
		{ProductID: uintPtr(3), Name: "Barato", UnitPrice: dec("1"), Quantity: 10, OrderID: 1},
		{ProductID: uintPtr(9), Name: "Caro", UnitPrice: dec("100"), Quantity: 2, OrderID: 2},
	}
	agg := Aggregate(items)

	byQty := agg.Rows(SortByQuantity, DefaultTop)
	if byQty[0].ProductID != 3 || byQty[1].ProductID != 9 {
		t.Errorf("unexpected quantity ordering: %+v", byQty)
	}

	byRev := agg.Rows(SortByRevenue, DefaultTop)
	if byRev[0].ProductID != 9 || byRev[1].ProductID != 3 {
		t.Errorf("unexpected revenue ordering: %+v", byRev)
	}

	limited := agg.Rows(SortByRevenue, 1)
	if len(limited) != 1 || limited[0].ProductID != 9 {
		t.Errorf("expected only the top revenue row, got %+v", limited)
	}
}

func TestRowsTieBreak(t *testing.T) {
	// Equal quantities: the higher-revenue product ranks first. Fully equal
	// metrics fall back to ascending product id.
	items := []LineItem{
		{ProductID: uintPtr(5), Name: "B", UnitPrice: dec("2"), Quantity: 4, OrderID: 1},
		{ProductID: uintPtr(4), Name: "A", UnitPrice: dec("3"), Quantity: 4, OrderID: 1},
		{ProductID: uintPtr(8), Name: "D", UnitPrice: dec("2"), Quantity: 4, OrderID: 1},
	}
	rows := Aggregate(items).Rows(SortByQuantity, DefaultTop)

	if rows[0].ProductID != 4 {
		t.Errorf("expected higher revenue to break the tie, got product %d first", rows[0].ProductID)
	}
	if rows[1].ProductID != 5 || rows[2].ProductID != 8 {
		t.Errorf("expected deterministic id ordering for equal metrics, got %+v", rows)
	}
}

func TestClampTop(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"below minimum", 0, MinTop},
		{"negative", -10, MinTop},
		{"within range", 50, 50},
		{"above maximum", 5000, MaxTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampTop(tt.in); got != tt.want {
				t.Errorf("ClampTop(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTopListsCappedAtFive(t *testing.T) {
	items := make([]LineItem, 0, 8)
	for i := uint(1); i <= 8; i++ {
		items = append(items, LineItem{
			ProductID: uintPtr(i),
			Name:      "P",
			UnitPrice: dec("1"),
			Quantity:  int(i),
			OrderID:   i,
		})
	}

	stats := Aggregate(items).Stats()
	if len(stats.TopByQuantity) != 5 {
		t.Errorf("expected top by quantity capped at 5, got %d", len(stats.TopByQuantity))
	}
	if len(stats.TopByRevenue) != 5 {
		t.Errorf("expected top by revenue capped at 5, got %d", len(stats.TopByRevenue))
	}
	if stats.TopByQuantity[0].ProductID != 8 {
		t.Errorf("expected product 8 on top, got %d", stats.TopByQuantity[0].ProductID)
	}
}
