package estimates

import (
	"github.com/shopspring/decimal"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
	"github.com/bestimator/bestimator-backend/pkg/types"
)

// wastageFactor pads the raw can count by 10% for touch-ups and spillage.
var wastageFactor = decimal.RequireFromString("1.10")

// PaintingQuote is the computed pricing for a painting job before it is
// persisted as an estimate.
type PaintingQuote struct {
	CansNeeded int64
	UnitPrice  decimal.Decimal
	PaintCost  decimal.Decimal
	Breakdown  types.CostBreakdown
	Total      decimal.Decimal
}

// parseAdditionalCosts normalizes the label->amount map. Entries must parse
// as non-negative money; anything else fails closed as a validation error
// rather than being silently zeroed.
func parseAdditionalCosts(raw map[string]any) (types.DecimalMap, error) {
	out := types.DecimalMap{}
	for label, value := range raw {
		amount, err := types.ParseAmount(value)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "additional cost "+label+" is not a valid amount")
		}
		if amount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "additional cost "+label+" cannot be negative")
		}
		out[label] = amount
	}
	return out, nil
}

// computePaintingQuote prices a painting job. Can count is
// ceil(surfaceArea / coverage * 1.10); partial cans are always bought whole.
// The provincial tax rate is a percentage (13.00 = 13%) and the tax amount
// is rounded half up to cents; every other figure stays exact decimal.
func computePaintingQuote(surfaceArea decimal.Decimal, material *models.Material, province *models.ProvinceWeight, additional types.DecimalMap) (*PaintingQuote, error) {
	if !surfaceArea.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "surface area must be positive")
	}
	if material.Coverage == nil || !material.Coverage.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material has no positive coverage value")
	}

	coverage := *material.Coverage
	cans := surfaceArea.Div(coverage).Mul(wastageFactor).Ceil().IntPart()
	if cans < 1 {
		cans = 1
	}

	paintCost := material.Price.Mul(decimal.NewFromInt(cans))
	additionalSum := additional.Sum()
	subtotal := paintCost.Add(additionalSum)
	taxAmount := types.RoundCurrency(subtotal.Mul(province.TaxRate).Div(decimal.NewFromInt(100)))
	total := subtotal.Add(taxAmount)

	return &PaintingQuote{
		CansNeeded: cans,
		UnitPrice:  material.Price,
		PaintCost:  paintCost,
		Total:      total,
		Breakdown: types.CostBreakdown{
			Paint: types.PaintLine{
				MaterialCost: paintCost,
				UnitPrice:    material.Price,
				Quantity:     cans,
				Coverage:     coverage,
			},
			AdditionalCosts: additional,
			Subtotal:        subtotal,
			Tax: types.TaxLine{
				Rate:   province.TaxRate,
				Amount: taxAmount,
			},
			Total: total,
		},
	}, nil
}
