package report

import (
	"strings"
	"testing"
)

func TestBuildCSV(t *testing.T) {
	agg := Aggregate(sampleItems())
	csv := BuildCSV(agg.Rows(SortByQuantity, DefaultTop), agg.Stats(), DefaultCurrencyFormat())

	if !strings.HasSuffix(csv, "\n") {
		t.Error("expected trailing newline")
	}

	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")
	// 7 stats lines, blank separator, header, 2 data rows
	if len(lines) != 11 {
		t.Fatalf("expected 11 lines, got %d:\n%s", len(lines), csv)
	}

	if lines[0] != `"Statistic","Value"` {
		t.Errorf("unexpected stats header: %q", lines[0])
	}
	if lines[1] != `"Total units sold","6"` {
		t.Errorf("unexpected units line: %q", lines[1])
	}
	if lines[2] != `"Total revenue","$55,00"` {
		t.Errorf("unexpected revenue line: %q", lines[2])
	}
	if lines[7] != "" {
		t.Errorf("expected blank separator line, got %q", lines[7])
	}
	if lines[8] != "productId,name,totalQuantity,totalRevenue,orderCount,avgUnitPrice" {
		t.Errorf("unexpected detail header: %q", lines[8])
	}
	if lines[9] != `1,"Cuaderno",5,50.00,2,10.00` {
		t.Errorf("unexpected first data row: %q", lines[9])
	}
	if lines[10] != `2,"Lápiz",1,5.00,1,5.00` {
		t.Errorf("unexpected second data row: %q", lines[10])
	}
}

func TestBuildCSVEscapesQuotes(t *testing.T) {
	items := []LineItem{
		{ProductID: uintPtr(1), Name: `Cinta "mágica"`, UnitPrice: dec("2"), Quantity: 1, OrderID: 1},
	}
	agg := Aggregate(items)
	csv := BuildCSV(agg.Rows(SortByQuantity, DefaultTop), agg.Stats(), DefaultCurrencyFormat())

	if !strings.Contains(csv, `"Cinta ""mágica"""`) {
		t.Errorf("expected doubled quotes in name, got:\n%s", csv)
	}
}

func TestBuildCSVEmpty(t *testing.T) {
	agg := Aggregate(nil)
	csv := BuildCSV(agg.Rows(SortByQuantity, DefaultTop), agg.Stats(), DefaultCurrencyFormat())

	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")
	// Stats block and header survive with no data rows
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d:\n%s", len(lines), csv)
	}
	if lines[1] != `"Total units sold","0"` {
		t.Errorf("unexpected units line: %q", lines[1])
	}
}
