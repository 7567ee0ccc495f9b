package estimates

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	"github.com/bestimator/bestimator-backend/pkg/enums"
	"github.com/bestimator/bestimator-backend/pkg/types"
)

// EstimateView is the externally visible estimate shape: the header plus
// flattened summaries of its associations and the material lines in
// insertion order.
type EstimateView struct {
	EstimateID      string               `json:"estimateId"`
	Status          enums.EstimateStatus `json:"status"`
	Notes           string               `json:"notes,omitempty"`
	ValidUntil      time.Time            `json:"validUntil"`
	TotalCost       decimal.Decimal      `json:"totalCost"`
	Costs           types.CostBreakdown  `json:"costs"`
	AdditionalCosts types.DecimalMap     `json:"additionalCosts,omitempty"`
	User            *UserSummary         `json:"user,omitempty"`
	Client          *ClientSummary       `json:"client,omitempty"`
	JobType         *JobTypeSummary      `json:"jobType,omitempty"`
	Province        *ProvinceSummary     `json:"province,omitempty"`
	Materials       []MaterialLineView   `json:"materials"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

type UserSummary struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type ClientSummary struct {
	ClientID  string `json:"clientId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type JobTypeSummary struct {
	JobTypeID int    `json:"jobTypeId"`
	Name      string `json:"name"`
}

type ProvinceSummary struct {
	ProvinceWeightID int             `json:"provinceWeightId"`
	Province         string          `json:"province"`
	Weight           decimal.Decimal `json:"weight"`
	TaxRate          decimal.Decimal `json:"taxRate"`
}

// MaterialLineView annotates a material with its line-item quantities. The
// initial unit cost is the frozen creation-time price; the current unit cost
// follows catalog refreshes.
type MaterialLineView struct {
	EstimateMaterialID string          `json:"estimateMaterialId"`
	MaterialID         string          `json:"materialId"`
	Name               string          `json:"name,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	InitialUnitCost    decimal.Decimal `json:"initialUnitCost"`
	CurrentUnitCost    decimal.Decimal `json:"currentUnitCost"`
	LineTotal          decimal.Decimal `json:"lineTotal"`
	Unit               string          `json:"unit,omitempty"`
}

// composeView flattens a loaded estimate row into the response shape.
func composeView(row *models.Estimate) *EstimateView {
	view := &EstimateView{
		EstimateID:      row.EstimateID,
		Status:          row.Status,
		Notes:           row.Notes,
		ValidUntil:      row.ValidUntil,
		TotalCost:       row.TotalCost,
		Costs:           row.Costs,
		AdditionalCosts: row.AdditionalCosts,
		Materials:       make([]MaterialLineView, 0, len(row.Materials)),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.User != nil {
		view.User = &UserSummary{
			UserID:    row.User.UserID,
			Email:     row.User.Email,
			FirstName: row.User.FirstName,
			LastName:  row.User.LastName,
		}
	}
	if row.Client != nil {
		view.Client = &ClientSummary{
			ClientID:  row.Client.ClientID,
			Email:     row.Client.Email,
			FirstName: row.Client.FirstName,
			LastName:  row.Client.LastName,
		}
	}
	if row.JobType != nil {
		view.JobType = &JobTypeSummary{
			JobTypeID: row.JobType.JobTypeID,
			Name:      row.JobType.Name,
		}
	}
	if row.ProvinceWeight != nil {
		view.Province = &ProvinceSummary{
			ProvinceWeightID: row.ProvinceWeight.ProvinceWeightID,
			Province:         row.ProvinceWeight.Province,
			Weight:           row.ProvinceWeight.Weight,
			TaxRate:          row.ProvinceWeight.TaxRate,
		}
	}
	for _, line := range row.Materials {
		item := MaterialLineView{
			EstimateMaterialID: line.EstimateMaterialID,
			MaterialID:         line.MaterialID,
			Quantity:           line.Quantity,
			InitialUnitCost:    line.InitialUnitCost,
			CurrentUnitCost:    line.CurrentUnitCost,
			LineTotal:          line.TotalCost,
		}
		if line.Material != nil {
			item.Name = line.Material.Name
			if line.Material.Unit != nil {
				item.Unit = line.Material.Unit.Name
			}
		}
		view.Materials = append(view.Materials, item)
	}
	return view
}
