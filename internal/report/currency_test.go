package report

import "testing"

func TestCurrencyFormat(t *testing.T) {
	cur := DefaultCurrencyFormat()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"zero", "0", "$0,00"},
		{"small", "5", "$5,00"},
		{"cents rounding", "12.345", "$12,35"},
		{"thousands", "1234.56", "$1.234,56"},
		{"millions", "1234567.8", "$1.234.567,80"},
		{"negative", "-1234.5", "-$1.234,50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cur.Format(dec(tt.in)); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCurrencyFormatCustomSeparators(t *testing.T) {
	cur := CurrencyFormat{Symbol: "€", ThousandSep: " ", DecimalSep: "."}
	if got := cur.Format(dec("9876543.21")); got != "€9 876 543.21" {
		t.Errorf("unexpected formatting: %q", got)
	}
}
