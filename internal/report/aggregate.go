package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Sort keys accepted by the export endpoint
const (
	SortByQuantity = "quantity"
	SortByRevenue  = "revenue"
)

// Row limits for the export endpoint
const (
	MinTop     = 1
	MaxTop     = 1000
	DefaultTop = 50
	topListLen = 5
)

// LineItem is the read-only aggregation input: one product entry within a
// placed order, carrying the quantity and price captured at purchase time.
// ProductID is nil for ad-hoc items, which are skipped. OrderID 0 means the
// item is not attached to an order.
type LineItem struct {
	ProductID *uint
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	OrderID   uint
}

// ProductAggregate accumulates totals across all line items sharing a product.
type ProductAggregate struct {
	ProductID     uint
	Name          string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
	orderIDs      map[uint]struct{}
}

// OrderCount returns the number of distinct orders the product appeared in.
func (a *ProductAggregate) OrderCount() int {
	return len(a.orderIDs)
}

// AvgUnitPrice returns totalRevenue / totalQuantity, or zero for zero quantity.
func (a *ProductAggregate) AvgUnitPrice() decimal.Decimal {
	if a.TotalQuantity <= 0 {
		return decimal.Zero
	}
	return a.TotalRevenue.Div(decimal.NewFromInt(int64(a.TotalQuantity)))
}

// Row is one line of the export detail table.
type Row struct {
	ProductID     uint
	Name          string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
	OrderCount    int
	AvgUnitPrice  decimal.Decimal
}

// TopEntry is one line of a top-N ranking block.
type TopEntry struct {
	ProductID     uint
	Name          string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
}

// Stats holds the summary statistics derived from one aggregation pass.
type Stats struct {
	TotalUnitsSold       int
	TotalRevenue         decimal.Decimal
	DistinctProductsSold int
	TotalOrders          int
	AvgRevenuePerOrder   decimal.Decimal
	AvgRevenuePerProduct decimal.Decimal
	TopByQuantity        []TopEntry
	TopByRevenue         []TopEntry
}

// Aggregation is the per-product rollup of a set of line items. It is built
// transiently per export request and never persisted.
type Aggregation struct {
	byProduct map[uint]*ProductAggregate
	orderIDs  map[uint]struct{}
}

// Aggregate folds line items into per-product totals. Items without a product
// reference are ignored; negative quantities and prices contribute zero so
// dirty data never fails the pass. No rounding is applied here; amounts are
// rounded to two decimals only at formatting time.
func Aggregate(items []LineItem) *Aggregation {
	agg := &Aggregation{
		byProduct: make(map[uint]*ProductAggregate),
		orderIDs:  make(map[uint]struct{}),
	}

	for _, it := range items {
		if it.ProductID == nil {
			continue
		}
		key := *it.ProductID

		if it.OrderID != 0 {
			agg.orderIDs[it.OrderID] = struct{}{}
		}

		acc, ok := agg.byProduct[key]
		if !ok {
			acc = &ProductAggregate{
				ProductID:    key,
				TotalRevenue: decimal.Zero,
				orderIDs:     make(map[uint]struct{}),
			}
			agg.byProduct[key] = acc
		}

		qty := it.Quantity
		if qty < 0 {
			qty = 0
		}
		price := it.UnitPrice
		if price.IsNegative() {
			price = decimal.Zero
		}

		acc.TotalQuantity += qty
		acc.TotalRevenue = acc.TotalRevenue.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		if it.OrderID != 0 {
			acc.orderIDs[it.OrderID] = struct{}{}
		}
		if acc.Name == "" && it.Name != "" {
			acc.Name = it.Name
		}
	}

	return agg
}

// ClampTop bounds a requested row count to [MinTop, MaxTop].
func ClampTop(top int) int {
	if top < MinTop {
		return MinTop
	}
	if top > MaxTop {
		return MaxTop
	}
	return top
}

// sorted returns all aggregates ordered by the given key. Rows are first
// ordered by product id so equal-metric products always come out in the same
// order regardless of map iteration.
func (g *Aggregation) sorted(sortBy string) []*ProductAggregate {
	aggs := make([]*ProductAggregate, 0, len(g.byProduct))
	for _, a := range g.byProduct {
		aggs = append(aggs, a)
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].ProductID < aggs[j].ProductID })

	if sortBy == SortByRevenue {
		sort.SliceStable(aggs, func(i, j int) bool {
			if !aggs[i].TotalRevenue.Equal(aggs[j].TotalRevenue) {
				return aggs[i].TotalRevenue.GreaterThan(aggs[j].TotalRevenue)
			}
			return aggs[i].TotalQuantity > aggs[j].TotalQuantity
		})
	} else {
		sort.SliceStable(aggs, func(i, j int) bool {
			if aggs[i].TotalQuantity != aggs[j].TotalQuantity {
				return aggs[i].TotalQuantity > aggs[j].TotalQuantity
			}
			return aggs[i].TotalRevenue.GreaterThan(aggs[j].TotalRevenue)
		})
	}

	return aggs
}

// Rows returns the aggregates sorted by the given key and truncated to top,
// clamped to [MinTop, MaxTop].
func (g *Aggregation) Rows(sortBy string, top int) []Row {
	aggs := g.sorted(sortBy)

	top = ClampTop(top)
	if top > len(aggs) {
		top = len(aggs)
	}

	rows := make([]Row, 0, top)
	for _, a := range aggs[:top] {
		rows = append(rows, Row{
			ProductID:     a.ProductID,
			Name:          a.Name,
			TotalQuantity: a.TotalQuantity,
			TotalRevenue:  a.TotalRevenue,
			OrderCount:    a.OrderCount(),
			AvgUnitPrice:  a.AvgUnitPrice(),
		})
	}
	return rows
}

// Stats derives the summary statistics for the whole aggregation.
func (g *Aggregation) Stats() Stats {
	stats := Stats{
		TotalRevenue:         decimal.Zero,
		AvgRevenuePerOrder:   decimal.Zero,
		AvgRevenuePerProduct: decimal.Zero,
		DistinctProductsSold: len(g.byProduct),
		TotalOrders:          len(g.orderIDs),
	}

	for _, a := range g.byProduct {
		stats.TotalUnitsSold += a.TotalQuantity
		stats.TotalRevenue = stats.TotalRevenue.Add(a.TotalRevenue)
	}

	if stats.TotalOrders > 0 {
		stats.AvgRevenuePerOrder = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.TotalOrders)))
	}
	if stats.DistinctProductsSold > 0 {
		stats.AvgRevenuePerProduct = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.DistinctProductsSold)))
	}

	stats.TopByQuantity = g.topEntries(SortByQuantity)
	stats.TopByRevenue = g.topEntries(SortByRevenue)

	return stats
}

func (g *Aggregation) topEntries(sortBy string) []TopEntry {
	aggs := g.sorted(sortBy)
	n := topListLen
	if n > len(aggs) {
		n = len(aggs)
	}

	entries := make([]TopEntry, 0, n)
	for _, a := range aggs[:n] {
		entries = append(entries, TopEntry{
			ProductID:     a.ProductID,
			Name:          a.Name,
			TotalQuantity: a.TotalQuantity,
			TotalRevenue:  a.TotalRevenue,
		})
	}
	return entries
}
