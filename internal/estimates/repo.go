package estimates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db"
	"github.com/bestimator/bestimator-backend/pkg/db/models"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
)

// Repository coordinates estimate persistence. Header and line-item writes
// always share one transaction; a failed line insert rolls the header back.
type Repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// LineInput is one material line to insert alongside the header.
type LineInput struct {
	MaterialID      string
	Quantity        decimal.Decimal
	InitialUnitCost decimal.Decimal
	TotalCost       decimal.Decimal
}

// checkReferences verifies user, client, job type, and province all exist.
// Every missing reference is reported, not just the first.
func (r *Repository) checkReferences(ctx context.Context, tx *gorm.DB, row *models.Estimate) error {
	var missing []string

	var count int64
	if err := tx.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", row.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		missing = append(missing, fmt.Sprintf("user %s", row.UserID))
	}

	if err := tx.WithContext(ctx).Model(&models.Client{}).Where("client_id = ?", row.ClientID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		missing = append(missing, fmt.Sprintf("client %s", row.ClientID))
	}

	if err := tx.WithContext(ctx).Model(&models.JobType{}).Where("job_type_id = ?", row.JobTypeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		missing = append(missing, fmt.Sprintf("job type %d", row.JobTypeID))
	}

	if err := tx.WithContext(ctx).Model(&models.ProvinceWeight{}).Where("province_weight_id = ?", row.ProvinceWeightID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		missing = append(missing, fmt.Sprintf("province weight %d", row.ProvinceWeightID))
	}

	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeReference, "invalid references: "+strings.Join(missing, ", ")).
			WithDetails(missing)
	}
	return nil
}

// Create inserts the header and any material lines atomically after the
// aggregated reference check.
func (r *Repository) Create(ctx context.Context, row *models.Estimate, lines []LineInput) (*models.Estimate, error) {
	if row.EstimateID == "" {
		row.EstimateID = uuid.NewString()
	}

	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := r.checkReferences(ctx, tx, row); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Omit("Materials").Create(row).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		items := make([]models.EstimateMaterial, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.EstimateMaterial{
				EstimateMaterialID: uuid.NewString(),
				EstimateID:         row.EstimateID,
				MaterialID:         line.MaterialID,
				Quantity:           line.Quantity,
				InitialUnitCost:    line.InitialUnitCost,
				CurrentUnitCost:    line.InitialUnitCost,
				TotalCost:          line.TotalCost,
			})
		}
		return tx.WithContext(ctx).Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, row.EstimateID, nil)
}

// FindByID loads the estimate with all associations. A non-nil ownerUserID
// scopes the lookup so foreign estimates read as missing.
func (r *Repository) FindByID(ctx context.Context, id string, ownerUserID *string) (*models.Estimate, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("Client").
		Preload("JobType").
		Preload("ProvinceWeight").
		Preload("Materials").
		Preload("Materials.Material").
		Preload("Materials.Material.Unit")
	if ownerUserID != nil {
		query = query.Where("user_id = ?", *ownerUserID)
	}
	var row models.Estimate
	if err := query.First(&row, "estimate_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Estimate, error) {
	var rows []models.Estimate
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("JobType").
		Preload("ProvinceWeight").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies only the supplied columns to the header.
func (r *Repository) Update(ctx context.Context, id string, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Estimate{}).
		Where("estimate_id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// Delete removes line items then the header in one transaction; cascade is
// explicit rather than delegated to the store.
func (r *Repository) Delete(ctx context.Context, id string, ownerUserID *string) (bool, error) {
	deleted := false
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		header := tx.WithContext(ctx).Where("estimate_id = ?", id)
		if ownerUserID != nil {
			header = header.Where("user_id = ?", *ownerUserID)
		}
		var count int64
		if err := header.Model(&models.Estimate{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		if err := tx.WithContext(ctx).Where("estimate_id = ?", id).Delete(&models.EstimateMaterial{}).Error; err != nil {
			return err
		}
		result := tx.WithContext(ctx).Where("estimate_id = ?", id).Delete(&models.Estimate{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}
