package models

import "github.com/shopspring/decimal"

// ProvinceWeight carries the regional cost multiplier and tax rate for a
// province. TaxRate is a percentage stored as a decimal: 13.00 means 13%.
type ProvinceWeight struct {
	ProvinceWeightID int             `gorm:"column:province_weight_id;primaryKey;autoIncrement"`
	Province         string          `gorm:"column:province;not null;uniqueIndex"`
	Weight           decimal.Decimal `gorm:"column:province_weight;type:numeric(4,2);not null"`
	TaxRate          decimal.Decimal `gorm:"column:province_tax_rate;type:numeric(4,2);not null"`
}

func (ProvinceWeight) TableName() string { return "province_weights" }
