package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
)

// A4 portrait in points, with the layout constants the report was designed
// around. Coordinates are top-left based.
const (
	pdfPageHeight = 841.89
	pdfTopMargin  = 50.0
	pdfLeftMargin = 40.0
	pdfLineHeight = 14.0

	// bottom bounds before a page break; the top-list sections break a
	// little earlier than the detail table
	pdfListBottom  = pdfPageHeight - 80.0
	pdfTableBottom = pdfPageHeight - 60.0

	pdfNameMaxLen = 40
)

// BuildPDF renders the statistics and detail rows as a paginated A4 document
// and returns the document bytes. Table headers appear once; continuation
// pages carry only rows.
func BuildPDF(rows []Row, stats Stats, cur CurrencyFormat, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := pdfTopMargin

	text := func(x float64, size float64, style string, s string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.Text(x, y, tr(s))
	}
	newPage := func() {
		pdf.AddPage()
		y = pdfTopMargin
	}

	pdf.SetTextColor(0, 0, 0)
	text(pdfLeftMargin, 16, "B", "Reporte de productos — Estadísticas")
	y += 18
	pdf.SetTextColor(102, 102, 102)
	text(pdfLeftMargin, 10, "", generatedAt.Format("2006-01-02 15:04:05"))
	pdf.SetTextColor(0, 0, 0)
	y += 16

	text(pdfLeftMargin, 11, "", fmt.Sprintf("Total unidades vendidas: %d", stats.TotalUnitsSold))
	y += pdfLineHeight
	text(pdfLeftMargin, 11, "", fmt.Sprintf("Total ingresos: %s", cur.Format(stats.TotalRevenue)))
	y += pdfLineHeight
	text(pdfLeftMargin, 11, "", fmt.Sprintf("Productos distintos vendidos: %d", stats.DistinctProductsSold))
	y += pdfLineHeight
	text(pdfLeftMargin, 11, "", fmt.Sprintf("Pedidos totales: %d", stats.TotalOrders))
	y += pdfLineHeight
	text(pdfLeftMargin, 11, "", fmt.Sprintf("Ingreso promedio por pedido: %s", cur.Format(stats.AvgRevenuePerOrder)))
	y += pdfLineHeight
	text(pdfLeftMargin, 11, "", fmt.Sprintf("Ingreso promedio por producto: %s", cur.Format(stats.AvgRevenuePerProduct)))
	y += 18

	text(pdfLeftMargin, 13, "B", "Top por cantidad:")
	y += pdfLineHeight
	for _, e := range stats.TopByQuantity {
		text(pdfLeftMargin+10, 11, "", fmt.Sprintf("- %s (qty: %d)", e.Name, e.TotalQuantity))
		y += 12
		if y > pdfListBottom {
			newPage()
		}
	}
	y += 8

	text(pdfLeftMargin, 13, "B", "Top por ingreso:")
	y += pdfLineHeight
	for _, e := range stats.TopByRevenue {
		text(pdfLeftMargin+10, 11, "", fmt.Sprintf("- %s (revenue: %s)", e.Name, cur.Format(e.TotalRevenue)))
		y += 12
		if y > pdfListBottom {
			newPage()
		}
	}

	y += 12
	text(pdfLeftMargin, 13, "B", "Detalle por producto:")
	y += 16

	text(40, 12, "B", "ID")
	text(90, 12, "B", "Producto")
	text(360, 12, "B", "Cant.")
	text(430, 12, "B", "Ingresos")
	y += pdfLineHeight

	for _, r := range rows {
		if y > pdfTableBottom {
			newPage()
		}
		name := r.Name
		if name == "" {
			name = "(sin nombre)"
		}
		if runes := []rune(name); len(runes) > pdfNameMaxLen {
			name = string(runes[:pdfNameMaxLen])
		}
		text(40, 11, "", fmt.Sprintf("%d", r.ProductID))
		text(90, 11, "", name)
		text(360, 11, "", fmt.Sprintf("%d", r.TotalQuantity))
		text(430, 11, "", cur.Format(r.TotalRevenue))
		y += pdfLineHeight
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
