package materials

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
	"github.com/bestimator/bestimator-backend/pkg/types"
)

type repository interface {
	Create(ctx context.Context, row *models.Material) (*models.Material, error)
	FindByID(ctx context.Context, id string) (*models.Material, error)
	FindByName(ctx context.Context, name string) (*models.Material, error)
	List(ctx context.Context, jobTypeID *int) ([]models.Material, error)
	Update(ctx context.Context, id string, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	ListTrackedProductIDs(ctx context.Context) ([]string, error)
	FindByProductID(ctx context.Context, productID string) ([]models.Material, error)
	UpdatePrice(ctx context.Context, materialID string, fields map[string]any) (int64, error)
}

// CreateInput carries the fields accepted when registering a material.
type CreateInput struct {
	ProductID    *string
	Name         string
	ProductTitle string
	JobTypeID    int
	Price        decimal.Decimal
	Coverage     *decimal.Decimal
	UnitID       int
	ImageURL     []string
	Rating       decimal.Decimal
	ProductURL   string
}

// UpdateInput holds optional overrides; nil keeps the stored value.
type UpdateInput struct {
	Name         *string
	ProductTitle *string
	JobTypeID    *int
	Price        *decimal.Decimal
	Coverage     *decimal.Decimal
	UnitID       *int
	ImageURL     []string
	Rating       *decimal.Decimal
	ProductURL   *string
}

// PriceUpdate is one catalog observation for a tracked product.
type PriceUpdate struct {
	ProductID    string
	RawPrice     string
	ProductTitle string
	ProductURL   string
	ImageURL     []string
	Rating       *decimal.Decimal
}

// ApplyOutcome classifies what a catalog observation did to the stored rows.
type ApplyOutcome int

const (
	// OutcomeApplied means at least one material row took the new price.
	OutcomeApplied ApplyOutcome = iota
	// OutcomeUnchanged means the truncated price matched what is stored.
	OutcomeUnchanged
	// OutcomeSkipped means the raw price was not parseable as money.
	OutcomeSkipped
	// OutcomeNotFound means no material tracks the product id.
	OutcomeNotFound
)

type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Material, error)
	Get(ctx context.Context, id string) (*models.Material, error)
	GetByName(ctx context.Context, name string) (*models.Material, error)
	List(ctx context.Context, jobTypeID *int) ([]models.Material, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.Material, error)
	Delete(ctx context.Context, id string) error
	ListTrackedProductIDs(ctx context.Context) ([]string, error)
	ApplyPriceUpdate(ctx context.Context, update PriceUpdate) (ApplyOutcome, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("materials: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Material, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material price cannot be negative")
	}
	if input.Coverage != nil && !input.Coverage.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coverage must be positive when provided")
	}

	row := &models.Material{
		MaterialID:   uuid.NewString(),
		ProductID:    input.ProductID,
		Name:         input.Name,
		ProductTitle: input.ProductTitle,
		JobTypeID:    input.JobTypeID,
		Price:        types.TruncatePrice(input.Price),
		Coverage:     input.Coverage,
		UnitID:       input.UnitID,
		ImageURL:     input.ImageURL,
		Rating:       input.Rating,
		ProductURL:   input.ProductURL,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if pkgerrors.ForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeReference, "job type or unit does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to create material")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Material, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to load material")
	}
	return row, nil
}

func (s *service) GetByName(ctx context.Context, name string) (*models.Material, error) {
	row, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to load material")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, jobTypeID *int) ([]models.Material, error) {
	rows, err := s.repo.List(ctx, jobTypeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to list materials")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.Material, error) {
	fields := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "material name cannot be blank")
		}
		fields["name"] = *input.Name
	}
	if input.ProductTitle != nil {
		fields["product_title"] = *input.ProductTitle
	}
	if input.JobTypeID != nil {
		fields["job_type_id"] = *input.JobTypeID
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "material price cannot be negative")
		}
		fields["price"] = types.TruncatePrice(*input.Price)
	}
	if input.Coverage != nil {
		if !input.Coverage.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coverage must be positive when provided")
		}
		fields["coverage"] = *input.Coverage
	}
	if input.UnitID != nil {
		fields["unit_id"] = *input.UnitID
	}
	if input.ImageURL != nil {
		fields["image_url"] = types.StringList(input.ImageURL)
	}
	if input.Rating != nil {
		fields["rating"] = *input.Rating
	}
	if input.ProductURL != nil {
		fields["product_url"] = *input.ProductURL
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	affected, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if pkgerrors.ForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeReference, "job type or unit does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to update material")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to delete material")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
	}
	return nil
}

func (s *service) ListTrackedProductIDs(ctx context.Context) ([]string, error) {
	ids, err := s.repo.ListTrackedProductIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to list tracked products")
	}
	return ids, nil
}

// ApplyPriceUpdate reconciles one catalog observation. The raw price is
// truncated to two decimals before comparison; a price equal to the stored
// one leaves the row untouched, and unparseable text skips the product
// entirely rather than corrupting the stored price.
func (s *service) ApplyPriceUpdate(ctx context.Context, update PriceUpdate) (ApplyOutcome, error) {
	price, ok := types.ParseTruncatedPrice(update.RawPrice)
	if !ok {
		return OutcomeSkipped, nil
	}

	rows, err := s.repo.FindByProductID(ctx, update.ProductID)
	if err != nil {
		return OutcomeSkipped, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to load materials for product")
	}
	if len(rows) == 0 {
		return OutcomeNotFound, nil
	}

	applied := false
	for _, row := range rows {
		if row.Price.Equal(price) {
			continue
		}
		fields := map[string]any{"price": price}
		if update.ProductTitle != "" {
			fields["product_title"] = update.ProductTitle
		}
		if update.ProductURL != "" {
			fields["product_url"] = update.ProductURL
		}
		if len(update.ImageURL) > 0 {
			fields["image_url"] = types.StringList(update.ImageURL)
		}
		if update.Rating != nil {
			fields["rating"] = *update.Rating
		}
		if _, err := s.repo.UpdatePrice(ctx, row.MaterialID, fields); err != nil {
			return OutcomeSkipped, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to apply price update")
		}
		applied = true
	}
	if !applied {
		return OutcomeUnchanged, nil
	}
	return OutcomeApplied, nil
}
