package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/bestimator/bestimator-backend/api/responses"
	"github.com/bestimator/bestimator-backend/api/validators"
	"github.com/bestimator/bestimator-backend/internal/materials"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
	"github.com/bestimator/bestimator-backend/pkg/logger"
)

type materialCreateRequest struct {
	ProductID    *string          `json:"productId"`
	Name         string           `json:"name" validate:"required"`
	ProductTitle string           `json:"productTitle"`
	JobTypeID    int              `json:"jobTypeId" validate:"required"`
	Price        decimal.Decimal  `json:"price"`
	Coverage     *decimal.Decimal `json:"coverage"`
	UnitID       int              `json:"unitId" validate:"required"`
	ImageURL     []string         `json:"imageUrl"`
	Rating       decimal.Decimal  `json:"rating"`
	ProductURL   string           `json:"productUrl"`
}

func MaterialCreate(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload materialCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.Create(r.Context(), materials.CreateInput{
			ProductID:    payload.ProductID,
			Name:         payload.Name,
			ProductTitle: payload.ProductTitle,
			JobTypeID:    payload.JobTypeID,
			Price:        payload.Price,
			Coverage:     payload.Coverage,
			UnitID:       payload.UnitID,
			ImageURL:     payload.ImageURL,
			Rating:       payload.Rating,
			ProductURL:   payload.ProductURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, material)
	}
}

func MaterialList(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var jobTypeID *int
		if raw := r.URL.Query().Get("jobTypeId"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "jobTypeId must be an integer"))
				return
			}
			jobTypeID = &parsed
		}

		rows, err := svc.List(r.Context(), jobTypeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func MaterialGet(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		material, err := svc.Get(r.Context(), chi.URLParam(r, "materialID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, material)
	}
}

type materialUpdateRequest struct {
	Name         *string          `json:"name"`
	ProductTitle *string          `json:"productTitle"`
	JobTypeID    *int             `json:"jobTypeId"`
	Price        *decimal.Decimal `json:"price"`
	Coverage     *decimal.Decimal `json:"coverage"`
	UnitID       *int             `json:"unitId"`
	ImageURL     []string         `json:"imageUrl"`
	Rating       *decimal.Decimal `json:"rating"`
	ProductURL   *string          `json:"productUrl"`
}

func MaterialUpdate(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload materialUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.Update(r.Context(), chi.URLParam(r, "materialID"), materials.UpdateInput{
			Name:         payload.Name,
			ProductTitle: payload.ProductTitle,
			JobTypeID:    payload.JobTypeID,
			Price:        payload.Price,
			Coverage:     payload.Coverage,
			UnitID:       payload.UnitID,
			ImageURL:     payload.ImageURL,
			Rating:       payload.Rating,
			ProductURL:   payload.ProductURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, material)
	}
}

func MaterialDelete(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "materialID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
