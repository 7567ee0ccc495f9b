package models

import "github.com/shopspring/decimal"

// EstimateMaterial is a line item on an estimate. InitialUnitCost freezes the
// material price at creation time and is never recomputed; CurrentUnitCost
// tracks the live catalog price after refreshes. TotalCost is always
// quantity x initial_unit_cost.
type EstimateMaterial struct {
	EstimateMaterialID string          `gorm:"column:estimate_material_id;primaryKey"`
	EstimateID         string          `gorm:"column:estimate_id;not null;index"`
	MaterialID         string          `gorm:"column:material_id;not null"`
	Quantity           decimal.Decimal `gorm:"column:quantity;type:numeric(10,2);not null"`
	InitialUnitCost    decimal.Decimal `gorm:"column:initial_unit_cost;type:numeric(10,2);not null"`
	CurrentUnitCost    decimal.Decimal `gorm:"column:current_unit_cost;type:numeric(10,2)"`
	TotalCost          decimal.Decimal `gorm:"column:total_cost;type:numeric(10,2);not null"`
	Material           *Material       `gorm:"foreignKey:MaterialID;references:MaterialID"`
}

func (EstimateMaterial) TableName() string { return "estimate_materials" }
