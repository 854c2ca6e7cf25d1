package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/report"
	"storefront/internal/repository"
)

// Export formats
const (
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
	ExportFormatJSON = "json"
)

type ExportParams struct {
	Format string
	Top    int
	SortBy string
}

// ExportResult is a fully rendered export: either Body bytes with download
// headers, or the JSON payload for the json format.
type ExportResult struct {
	Format      string
	ContentType string
	Filename    string
	Body        []byte
	JSON        *ExportJSON
}

type ExportRowJSON struct {
	ProductID     uint    `json:"productId"`
	Name          string  `json:"name"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
	OrderCount    int     `json:"orderCount"`
	AvgUnitPrice  float64 `json:"avgUnitPrice"`
}

type ExportTopQuantityJSON struct {
	ProductID     uint   `json:"productId"`
	Name          string `json:"name"`
	TotalQuantity int    `json:"totalQuantity"`
}

type ExportTopRevenueJSON struct {
	ProductID    uint    `json:"productId"`
	Name         string  `json:"name"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type ExportStatsJSON struct {
	TotalUnitsSold       int                     `json:"totalUnitsSold"`
	TotalRevenue         float64                 `json:"totalRevenue"`
	DistinctProductsSold int                     `json:"distinctProductsSold"`
	TotalOrders          int                     `json:"totalOrders"`
	AvgRevenuePerOrder   float64                 `json:"avgRevenuePerOrder"`
	AvgRevenuePerProduct float64                 `json:"avgRevenuePerProduct"`
	TopByQuantity        []ExportTopQuantityJSON `json:"topByQuantity"`
	TopByRevenue         []ExportTopRevenueJSON  `json:"topByRevenue"`
}

type ExportJSON struct {
	Rows   []ExportRowJSON `json:"rows"`
	SortBy string          `json:"sortBy"`
	Stats  ExportStatsJSON `json:"stats"`
}

type ExportService interface {
	Export(ctx context.Context, params ExportParams) (*ExportResult, error)
}

type exportService struct {
	orderRepo repository.OrderRepository
	currency  report.CurrencyFormat
	now       func() time.Time
}

func NewExportService(orderRepo repository.OrderRepository, currency report.CurrencyFormat) ExportService {
	return &exportService{orderRepo: orderRepo, currency: currency, now: time.Now}
}

// Export runs the fetch → aggregate → sort/limit → format pipeline. One bulk
// read of product-linked items, everything else in memory.
func (s *exportService) Export(ctx context.Context, params ExportParams) (*ExportResult, error) {
	format := strings.ToLower(params.Format)
	if format != ExportFormatPDF && format != ExportFormatJSON {
		format = ExportFormatCSV
	}

	sortBy := strings.ToLower(params.SortBy)
	if sortBy != report.SortByRevenue {
		sortBy = report.SortByQuantity
	}

	top := params.Top
	if top == 0 {
		top = report.DefaultTop
	}
	top = report.ClampTop(top)

	items, err := s.orderRepo.ListProductLinkedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order items: %w", err)
	}

	agg := report.Aggregate(toLineItems(items))
	rows := agg.Rows(sortBy, top)
	stats := agg.Stats()

	generatedAt := s.now()
	ts := strings.NewReplacer(":", "-", ".", "-").
		Replace(generatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"))

	switch format {
	case ExportFormatPDF:
		body, err := report.BuildPDF(rows, stats, s.currency, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to render pdf: %w", err)
		}
		return &ExportResult{
			Format:      format,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("ventas_top_%s.pdf", ts),
			Body:        body,
		}, nil

	case ExportFormatJSON:
		return &ExportResult{
			Format: format,
			JSON:   toExportJSON(rows, stats, sortBy),
		}, nil

	default:
		csv := report.BuildCSV(rows, stats, s.currency)
		return &ExportResult{
			Format:      format,
			ContentType: "text/csv; charset=utf-8",
			Filename:    fmt.Sprintf("ventas_top_%s.csv", ts),
			Body:        []byte(csv),
		}, nil
	}
}

func toLineItems(items []model.OrderItem) []report.LineItem {
	out := make([]report.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, report.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			OrderID:   it.OrderID,
		})
	}
	return out
}

func toExportJSON(rows []report.Row, stats report.Stats, sortBy string) *ExportJSON {
	jsonRows := make([]ExportRowJSON, 0, len(rows))
	for _, r := range rows {
		jsonRows = append(jsonRows, ExportRowJSON{
			ProductID:     r.ProductID,
			Name:          r.Name,
			TotalQuantity: r.TotalQuantity,
			TotalRevenue:  r.TotalRevenue.InexactFloat64(),
			OrderCount:    r.OrderCount,
			AvgUnitPrice:  r.AvgUnitPrice.InexactFloat64(),
		})
	}

	topQty := make([]ExportTopQuantityJSON, 0, len(stats.TopByQuantity))
	for _, e := range stats.TopByQuantity {
		topQty = append(topQty, ExportTopQuantityJSON{
			ProductID:     e.ProductID,
			Name:          e.Name,
			TotalQuantity: e.TotalQuantity,
		})
	}

	topRev := make([]ExportTopRevenueJSON, 0, len(stats.TopByRevenue))
	for _, e := range stats.TopByRevenue {
		topRev = append(topRev, ExportTopRevenueJSON{
			ProductID:    e.ProductID,
			Name:         e.Name,
			TotalRevenue: e.TotalRevenue.InexactFloat64(),
		})
	}

	return &ExportJSON{
		Rows:   jsonRows,
		SortBy: sortBy,
		Stats: ExportStatsJSON{
			TotalUnitsSold:       stats.TotalUnitsSold,
			TotalRevenue:         stats.TotalRevenue.InexactFloat64(),
			DistinctProductsSold: stats.DistinctProductsSold,
			TotalOrders:          stats.TotalOrders,
			AvgRevenuePerOrder:   stats.AvgRevenuePerOrder.InexactFloat64(),
			AvgRevenuePerProduct: stats.AvgRevenuePerProduct.InexactFloat64(),
			TopByQuantity:        topQty,
			TopByRevenue:         topRev,
		},
	}
}
