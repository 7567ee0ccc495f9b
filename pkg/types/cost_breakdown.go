package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PaintLine is the material portion of a painting estimate breakdown.
type PaintLine struct {
	MaterialCost decimal.Decimal `json:"materialCost"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int64           `json:"quantity"`
	Coverage     decimal.Decimal `json:"coverage"`
}

// TaxLine carries the provincial rate (as a percentage, 13.00 = 13%) and the
// resulting amount.
type TaxLine struct {
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// CostBreakdown is the structured costs document stored on an estimate.
type CostBreakdown struct {
	Paint           PaintLine       `json:"paint"`
	AdditionalCosts DecimalMap      `json:"additionalCosts"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             TaxLine         `json:"tax"`
	Total           decimal.Decimal `json:"total"`
}

// Value serializes the breakdown for a json column.
func (c CostBreakdown) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan reads the breakdown back from a json column.
func (c *CostBreakdown) Scan(src any) error {
	return scanJSON(src, c)
}

// DecimalMap maps a cost label to an amount, stored as a json column.
type DecimalMap map[string]decimal.Decimal

// Sum adds every amount in the map.
func (m DecimalMap) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range m {
		total = total.Add(amount)
	}
	return total
}

func (m DecimalMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(DecimalMap{})
	}
	return json.Marshal(m)
}

func (m *DecimalMap) Scan(src any) error {
	return scanJSON(src, m)
}

func scanJSON(src, dest any) error {
	switch raw := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(raw, dest)
	case string:
		return json.Unmarshal([]byte(raw), dest)
	default:
		return fmt.Errorf("unsupported json column source %T", src)
	}
}
