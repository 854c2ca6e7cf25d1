package report

import (
	"fmt"
	"strings"
)

// BuildCSV renders the statistics block and detail rows as CSV text. The
// stats block uses currency formatting; data rows carry plain two-decimal
// amounts so the table section stays machine-parseable.
func BuildCSV(rows []Row, stats Stats, cur CurrencyFormat) string {
	lines := make([]string, 0, len(rows)+10)

	lines = append(lines, `"Statistic","Value"`)
	lines = append(lines, fmt.Sprintf(`"Total units sold","%d"`, stats.TotalUnitsSold))
	lines = append(lines, fmt.Sprintf(`"Total revenue","%s"`, cur.Format(stats.TotalRevenue)))
	lines = append(lines, fmt.Sprintf(`"Distinct products sold","%d"`, stats.DistinctProductsSold))
	lines = append(lines, fmt.Sprintf(`"Total orders","%d"`, stats.TotalOrders))
	lines = append(lines, fmt.Sprintf(`"Average revenue per order","%s"`, cur.Format(stats.AvgRevenuePerOrder)))
	lines = append(lines, fmt.Sprintf(`"Average revenue per product","%s"`, cur.Format(stats.AvgRevenuePerProduct)))
	lines = append(lines, "")

	lines = append(lines, "productId,name,totalQuantity,totalRevenue,orderCount,avgUnitPrice")
	for _, r := range rows {
		nameEsc := strings.ReplaceAll(r.Name, `"`, `""`)
		lines = append(lines, fmt.Sprintf(`%d,"%s",%d,%s,%d,%s`,
			r.ProductID,
			nameEsc,
			r.TotalQuantity,
			r.TotalRevenue.StringFixed(2),
			r.OrderCount,
			r.AvgUnitPrice.StringFixed(2),
		))
	}

	return strings.Join(lines, "\n") + "\n"
}
