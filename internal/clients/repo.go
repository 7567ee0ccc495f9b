package clients

import (
	"context"

	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
)

// Repository persists clients. All lookups are scoped by the owning user.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, row *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) FindByID(ctx context.Context, userID, clientID string) (*models.Client, error) {
	var row models.Client
	err := r.db.WithContext(ctx).
		First(&row, "client_id = ? AND user_id = ?", clientID, userID).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Client, error) {
	var rows []models.Client
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_name, first_name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, userID, clientID string, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("client_id = ? AND user_id = ?", clientID, userID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *Repository) Delete(ctx context.Context, userID, clientID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("client_id = ? AND user_id = ?", clientID, userID).
		Delete(&models.Client{})
	return result.RowsAffected, result.Error
}
