package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bestimator/bestimator-backend/pkg/types"
)

// Material is a purchasable product tracked against the external pricing
// catalog. Coverage is the area one unit services; it is null for materials
// priced per quantity rather than per area.
type Material struct {
	MaterialID   string           `gorm:"column:material_id;primaryKey"`
	ProductID    *string          `gorm:"column:product_id;index"`
	Name         string           `gorm:"column:name;size:100;not null;uniqueIndex"`
	ProductTitle string           `gorm:"column:product_title;size:100;not null"`
	JobTypeID    int              `gorm:"column:job_type_id;not null"`
	Price        decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Coverage     *decimal.Decimal `gorm:"column:coverage;type:numeric(10,2)"`
	UnitID       int              `gorm:"column:unit_id;not null"`
	ImageURL     types.StringList `gorm:"column:image_url;type:jsonb"`
	Rating       decimal.Decimal  `gorm:"column:rating;type:numeric(4,2)"`
	ProductURL   string           `gorm:"column:product_url"`
	JobType      *JobType         `gorm:"foreignKey:JobTypeID;references:JobTypeID"`
	Unit         *Unit            `gorm:"foreignKey:UnitID;references:UnitID"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Material) TableName() string { return "materials" }
