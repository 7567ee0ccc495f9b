package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/bestimator/bestimator-backend/api/middleware"
	"github.com/bestimator/bestimator-backend/api/responses"
	"github.com/bestimator/bestimator-backend/api/validators"
	"github.com/bestimator/bestimator-backend/internal/estimates"
	"github.com/bestimator/bestimator-backend/pkg/enums"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
	"github.com/bestimator/bestimator-backend/pkg/logger"
	"github.com/bestimator/bestimator-backend/pkg/types"
)

type paintingEstimateRequest struct {
	ClientID         string          `json:"clientId" validate:"required"`
	SurfaceArea      decimal.Decimal `json:"surfaceArea"`
	PaintMaterialID  string          `json:"paintMaterialId" validate:"required"`
	ProvinceWeightID int             `json:"provinceWeightId" validate:"required"`
	AdditionalCosts  map[string]any  `json:"additionalCosts"`
	Notes            string          `json:"notes"`
	ValidUntil       *time.Time      `json:"validUntil"`
}

// EstimateCreatePainting prices a painting job and persists the estimate.
func EstimateCreatePainting(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload paintingEstimateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreatePaintingEstimate(r.Context(), estimates.PaintingInput{
			UserID:           userID,
			ClientID:         payload.ClientID,
			SurfaceArea:      payload.SurfaceArea,
			PaintMaterialID:  payload.PaintMaterialID,
			ProvinceWeightID: payload.ProvinceWeightID,
			AdditionalCosts:  payload.AdditionalCosts,
			Notes:            payload.Notes,
			ValidUntil:       payload.ValidUntil,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type genericLineRequest struct {
	MaterialID string          `json:"materialId" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unitCost"`
}

type genericEstimateRequest struct {
	ClientID         string               `json:"clientId" validate:"required"`
	JobTypeID        int                  `json:"jobTypeId" validate:"required"`
	ProvinceWeightID int                  `json:"provinceWeightId" validate:"required"`
	Costs            types.CostBreakdown  `json:"costs"`
	AdditionalCosts  map[string]any       `json:"additionalCosts"`
	Status           *string              `json:"status"`
	Notes            string               `json:"notes"`
	ValidUntil       *time.Time           `json:"validUntil"`
	TotalCost        decimal.Decimal      `json:"totalCost"`
	Materials        []genericLineRequest `json:"materials"`
}

// EstimateCreate is the pre-priced creation path.
func EstimateCreate(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload genericEstimateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := estimates.GenericInput{
			UserID:           userID,
			ClientID:         payload.ClientID,
			JobTypeID:        payload.JobTypeID,
			ProvinceWeightID: payload.ProvinceWeightID,
			Costs:            payload.Costs,
			AdditionalCosts:  payload.AdditionalCosts,
			Notes:            payload.Notes,
			ValidUntil:       payload.ValidUntil,
			TotalCost:        payload.TotalCost,
		}
		if payload.Status != nil {
			status, err := enums.ParseEstimateStatus(*payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid estimate status"))
				return
			}
			input.Status = &status
		}
		for _, line := range payload.Materials {
			input.Materials = append(input.Materials, estimates.GenericLine{
				MaterialID: line.MaterialID,
				Quantity:   line.Quantity,
				UnitCost:   line.UnitCost,
			})
		}

		view, err := svc.CreateEstimate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func EstimateList(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		views, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func EstimateGet(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		estimateID := chi.URLParam(r, "estimateID")
		ctx := logg.WithEstimateID(r.Context(), estimateID)
		view, err := svc.Get(ctx, estimateID, &userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type estimateUpdateRequest struct {
	Status     *string    `json:"status"`
	Notes      *string    `json:"notes"`
	ValidUntil *time.Time `json:"validUntil"`
}

func EstimateUpdate(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload estimateUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := estimates.UpdateInput{
			Notes:      payload.Notes,
			ValidUntil: payload.ValidUntil,
		}
		if payload.Status != nil {
			status, err := enums.ParseEstimateStatus(*payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid estimate status"))
				return
			}
			input.Status = &status
		}

		estimateID := chi.URLParam(r, "estimateID")
		ctx := logg.WithEstimateID(r.Context(), estimateID)
		view, err := svc.Update(ctx, estimateID, &userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func EstimateDelete(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		estimateID := chi.URLParam(r, "estimateID")
		ctx := logg.WithEstimateID(r.Context(), estimateID)
		deleted, err := svc.Delete(ctx, estimateID, &userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !deleted {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
