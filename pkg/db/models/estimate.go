package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bestimator/bestimator-backend/pkg/enums"
	"github.com/bestimator/bestimator-backend/pkg/types"
)

// Estimate is the aggregate root for a priced quote. The costs column holds
// the structured breakdown; additional_costs duplicates the label->amount
// map so it can be updated independently of the breakdown document.
type Estimate struct {
	EstimateID       string               `gorm:"column:estimate_id;primaryKey"`
	UserID           string               `gorm:"column:user_id;not null;index"`
	ClientID         string               `gorm:"column:client_id;not null"`
	JobTypeID        int                  `gorm:"column:job_type_id;not null"`
	ProvinceWeightID int                  `gorm:"column:province_weight_id;not null"`
	Costs            types.CostBreakdown  `gorm:"column:costs;type:jsonb"`
	AdditionalCosts  types.DecimalMap     `gorm:"column:additional_costs;type:jsonb"`
	Status           enums.EstimateStatus `gorm:"column:status;not null;default:'Draft'"`
	Notes            string               `gorm:"column:notes"`
	ValidUntil       time.Time            `gorm:"column:valid_until;not null"`
	TotalCost        decimal.Decimal      `gorm:"column:total_cost;type:numeric(10,2);not null"`
	User             *User                `gorm:"foreignKey:UserID;references:UserID"`
	Client           *Client              `gorm:"foreignKey:ClientID;references:ClientID"`
	JobType          *JobType             `gorm:"foreignKey:JobTypeID;references:JobTypeID"`
	ProvinceWeight   *ProvinceWeight      `gorm:"foreignKey:ProvinceWeightID;references:ProvinceWeightID"`
	Materials        []EstimateMaterial   `gorm:"foreignKey:EstimateID;references:EstimateID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Estimate) TableName() string { return "estimates" }
