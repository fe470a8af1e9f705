package convert

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain integer", "42", "42"},
		{"plain decimal", "0.5", "0.5"},
		{"currency noise stripped", "$1,234.56", "1234.56"},
		{"whitespace stripped", " 42 ", "42"},
		{"second decimal point dropped", "12.3.4", "12.34"},
		{"many decimal points", "1.2.3", "1.23"},
		{"empty", "", "0"},
		{"lone dot", ".", "0"},
		{"no digits", "abc", "0"},
		{"leading dot", ".25", "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestParseAmount_Deterministic(t *testing.T) {
	a := ParseAmount("12.3.4")
	b := ParseAmount("12.3.4")
	if !a.Equal(b) {
		t.Errorf("expected deterministic parse, got %s and %s", a, b)
	}
}
