package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
)

// Repository exposes user persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "user_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, row *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) Update(ctx context.Context, id string, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// Deactivate flips is_active off; the row is retained.
func (r *Repository) Deactivate(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", id).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// IsActive reads only the is_active flag.
func (r *Repository) IsActive(ctx context.Context, id string) (bool, error) {
	var rows []bool
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", id).
		Pluck("is_active", &rows).Error
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, gorm.ErrRecordNotFound
	}
	return rows[0], nil
}
