package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmountMixedInputs(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "float", input: 50.0, want: "50"},
		{name: "numeric string", input: "25", want: "25"},
		{name: "decimal string", input: "19.99", want: "19.99"},
		{name: "nil is zero", input: nil, want: "0"},
		{name: "empty string is zero", input: "", want: "0"},
		{name: "int", input: 7, want: "7"},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got.String() != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestParseAmountRejectsMalformed(t *testing.T) {
	if _, err := ParseAmount("twenty"); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
	if _, err := ParseAmount([]string{"50"}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestTruncatePriceNeverRounds(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "19.999", want: "19.99"},
		{raw: "19.995", want: "19.99"},
		{raw: "19.99", want: "19.99"},
		{raw: "20", want: "20"},
	}
	for _, tt := range tests {
		in := decimal.RequireFromString(tt.raw)
		if got := TruncatePrice(in); got.String() != tt.want {
			t.Fatalf("TruncatePrice(%s) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseTruncatedPrice(t *testing.T) {
	got, ok := ParseTruncatedPrice(" 45.978 ")
	if !ok || got.String() != "45.97" {
		t.Fatalf("expected 45.97, got %s (ok=%v)", got, ok)
	}
	if _, ok := ParseTruncatedPrice("n/a"); ok {
		t.Fatalf("malformed price text should not parse")
	}
}

func TestRoundCurrencyHalfUp(t *testing.T) {
	// 45.97 * 0.13 = 5.9761 -> 5.98
	amount := decimal.RequireFromString("5.9761")
	if got := RoundCurrency(amount); got.String() != "5.98" {
		t.Fatalf("expected 5.98, got %s", got)
	}
	if got := RoundCurrency(decimal.RequireFromString("5.975")); got.String() != "5.98" {
		t.Fatalf("half-up expected 5.98, got %s", got)
	}
	if got := RoundCurrency(decimal.RequireFromString("5.974")); got.String() != "5.97" {
		t.Fatalf("expected 5.97, got %s", got)
	}
}

func TestDecimalMapSum(t *testing.T) {
	m := DecimalMap{
		"labor": decimal.RequireFromString("50"),
		"prep":  decimal.RequireFromString("25"),
	}
	if got := m.Sum(); got.String() != "75" {
		t.Fatalf("expected 75, got %s", got)
	}
	var empty DecimalMap
	if got := empty.Sum(); !got.IsZero() {
		t.Fatalf("nil map should sum to zero, got %s", got)
	}
}
