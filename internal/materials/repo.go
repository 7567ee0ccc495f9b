package materials

import (
	"context"

	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
)

// Repository persists materials and serves the price-refresh worker's
// tracked-product queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, row *models.Material) (*models.Material, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Material, error) {
	var row models.Material
	err := r.db.WithContext(ctx).
		Preload("JobType").
		Preload("Unit").
		First(&row, "material_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*models.Material, error) {
	var row models.Material
	err := r.db.WithContext(ctx).
		Preload("JobType").
		Preload("Unit").
		First(&row, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) List(ctx context.Context, jobTypeID *int) ([]models.Material, error) {
	query := r.db.WithContext(ctx).
		Preload("JobType").
		Preload("Unit").
		Order("name")
	if jobTypeID != nil {
		query = query.Where("job_type_id = ?", *jobTypeID)
	}
	var rows []models.Material
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, id string, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Material{}).
		Where("material_id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("material_id = ?", id).
		Delete(&models.Material{})
	return result.RowsAffected, result.Error
}

// ListTrackedProductIDs returns the distinct non-null product ids, the set
// the refresh worker polls the catalog for.
func (r *Repository) ListTrackedProductIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Material{}).
		Where("product_id IS NOT NULL").
		Distinct().
		Order("product_id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) FindByProductID(ctx context.Context, productID string) ([]models.Material, error) {
	var rows []models.Material
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdatePrice(ctx context.Context, materialID string, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Material{}).
		Where("material_id = ?", materialID).
		Updates(fields)
	return result.RowsAffected, result.Error
}
