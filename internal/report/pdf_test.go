package report

import (
	"bytes"
	"testing"
	"time"
)

func TestBuildPDF(t *testing.T) {
	agg := Aggregate(sampleItems())
	body, err := BuildPDF(agg.Rows(SortByQuantity, DefaultTop), agg.Stats(), DefaultCurrencyFormat(), time.Now())
	if err != nil {
		t.Fatalf("BuildPDF failed: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected non-empty pdf output")
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Errorf("expected %%PDF header, got %q", body[:8])
	}
}

func TestBuildPDFEmpty(t *testing.T) {
	agg := Aggregate(nil)
	body, err := BuildPDF(agg.Rows(SortByQuantity, DefaultTop), agg.Stats(), DefaultCurrencyFormat(), time.Now())
	if err != nil {
		t.Fatalf("BuildPDF failed on empty aggregation: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Error("expected a valid pdf even with no rows")
	}
}

func TestBuildPDFManyRows(t *testing.T) {
	// Enough rows to force pagination past the first page
	items := make([]LineItem, 0, 200)
	for i := uint(1); i <= 200; i++ {
		items = append(items, LineItem{
			ProductID: uintPtr(i),
			Name:      "Producto con un nombre razonablemente largo para truncar",
			UnitPrice: dec("19.99"),
			Quantity:  int(i % 7),
			OrderID:   i,
		})
	}
	agg := Aggregate(items)
	body, err := BuildPDF(agg.Rows(SortByQuantity, MaxTop), agg.Stats(), DefaultCurrencyFormat(), time.Now())
	if err != nil {
		t.Fatalf("BuildPDF failed: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected non-empty pdf output")
	}
}
