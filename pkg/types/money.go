package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a loosely typed cost value into a decimal amount.
// Numbers and numeric strings are accepted, nil is treated as zero, and
// anything else fails so that a malformed entry surfaces instead of being
// silently dropped from a total.
func ParseAmount(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(trimmed)
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", value)
	}
}

// TruncatePrice cuts a price to two decimal places without rounding,
// mirroring taking only the integer and two-decimal-digit portion of the
// textual representation. 19.999 becomes 19.99, never 20.00.
func TruncatePrice(price decimal.Decimal) decimal.Decimal {
	return price.Truncate(2)
}

// ParseTruncatedPrice parses raw price text and truncates it to two decimal
// places. The boolean is false when the text does not parse as a number.
func ParseTruncatedPrice(raw string) (decimal.Decimal, bool) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, false
	}
	return parsed.Truncate(2), true
}

// RoundCurrency rounds to two decimal places, half away from zero.
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
