package reference

import (
	"context"

	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
)

// Repository exposes persistence for the lookup tables: job types, units,
// and province weights.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reference-data repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListJobTypes(ctx context.Context) ([]models.JobType, error) {
	var rows []models.JobType
	if err := r.db.WithContext(ctx).Order("job_type_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindJobTypeByID(ctx context.Context, id int) (*models.JobType, error) {
	var row models.JobType
	if err := r.db.WithContext(ctx).First(&row, "job_type_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindJobTypeByName(ctx context.Context, name string) (*models.JobType, error) {
	var row models.JobType
	if err := r.db.WithContext(ctx).First(&row, "job_type = ?", name).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateJobType(ctx context.Context, row *models.JobType) (*models.JobType, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) UpdateJobType(ctx context.Context, id int, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.JobType{}).
		Where("job_type_id = ?", id).
		Update("job_type", name)
	return result.RowsAffected, result.Error
}

func (r *Repository) DeleteJobType(ctx context.Context, id int) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.JobType{}, "job_type_id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *Repository) ListUnits(ctx context.Context) ([]models.Unit, error) {
	var rows []models.Unit
	if err := r.db.WithContext(ctx).Order("unit_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindUnitByID(ctx context.Context, id int) (*models.Unit, error) {
	var row models.Unit
	if err := r.db.WithContext(ctx).First(&row, "unit_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateUnit(ctx context.Context, row *models.Unit) (*models.Unit, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) UpdateUnit(ctx context.Context, id int, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Unit{}).
		Where("unit_id = ?", id).
		Update("unit_name", name)
	return result.RowsAffected, result.Error
}

func (r *Repository) DeleteUnit(ctx context.Context, id int) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Unit{}, "unit_id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *Repository) ListProvinceWeights(ctx context.Context) ([]models.ProvinceWeight, error) {
	var rows []models.ProvinceWeight
	if err := r.db.WithContext(ctx).Order("province_weight_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindProvinceWeightByID(ctx context.Context, id int) (*models.ProvinceWeight, error) {
	var row models.ProvinceWeight
	if err := r.db.WithContext(ctx).First(&row, "province_weight_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateProvinceWeight(ctx context.Context, row *models.ProvinceWeight) (*models.ProvinceWeight, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) UpdateProvinceWeight(ctx context.Context, row *models.ProvinceWeight) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProvinceWeight{}).
		Where("province_weight_id = ?", row.ProvinceWeightID).
		Updates(map[string]any{
			"province":          row.Province,
			"province_weight":   row.Weight,
			"province_tax_rate": row.TaxRate,
		})
	return result.RowsAffected, result.Error
}

func (r *Repository) DeleteProvinceWeight(ctx context.Context, id int) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.ProvinceWeight{}, "province_weight_id = ?", id)
	return result.RowsAffected, result.Error
}
