package estimates

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	"github.com/bestimator/bestimator-backend/pkg/enums"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
	"github.com/bestimator/bestimator-backend/pkg/types"
)

// paintingJobTypeName is the reference row painting estimates resolve their
// job type from. Seeded reference data must contain it.
const paintingJobTypeName = "Painting"

// defaultValidity is how long an estimate stays open when the caller does
// not supply valid_until.
const defaultValidity = 30 * 24 * time.Hour

type repository interface {
	Create(ctx context.Context, row *models.Estimate, lines []LineInput) (*models.Estimate, error)
	FindByID(ctx context.Context, id string, ownerUserID *string) (*models.Estimate, error)
	ListByUser(ctx context.Context, userID string) ([]models.Estimate, error)
	Update(ctx context.Context, id string, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id string, ownerUserID *string) (bool, error)
}

type materialReader interface {
	Get(ctx context.Context, id string) (*models.Material, error)
}

type referenceReader interface {
	GetProvinceWeight(ctx context.Context, id int) (*models.ProvinceWeight, error)
	GetJobTypeByName(ctx context.Context, name string) (*models.JobType, error)
}

// PaintingInput is the request for a priced painting estimate.
type PaintingInput struct {
	UserID           string
	ClientID         string
	SurfaceArea      decimal.Decimal
	PaintMaterialID  string
	ProvinceWeightID int
	AdditionalCosts  map[string]any
	Notes            string
	ValidUntil       *time.Time
}

// GenericLine is one caller-supplied material line for the generic creation
// path. The unit cost freezes as supplied.
type GenericLine struct {
	MaterialID string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// GenericInput is the pre-priced creation path: the caller supplies the
// breakdown and total rather than having them computed.
type GenericInput struct {
	UserID           string
	ClientID         string
	JobTypeID        int
	ProvinceWeightID int
	Costs            types.CostBreakdown
	AdditionalCosts  map[string]any
	Status           *enums.EstimateStatus
	Notes            string
	ValidUntil       *time.Time
	TotalCost        decimal.Decimal
	Materials        []GenericLine
}

// UpdateInput holds the mutable header fields; nil keeps the stored value.
type UpdateInput struct {
	Status     *enums.EstimateStatus
	Notes      *string
	ValidUntil *time.Time
}

// PaintingResult pairs the persisted estimate view with the raw breakdown.
type PaintingResult struct {
	Estimate  *EstimateView       `json:"estimate"`
	Breakdown types.CostBreakdown `json:"costBreakdown"`
}

type Service interface {
	CreatePaintingEstimate(ctx context.Context, input PaintingInput) (*PaintingResult, error)
	CreateEstimate(ctx context.Context, input GenericInput) (*EstimateView, error)
	Get(ctx context.Context, id string, ownerUserID *string) (*EstimateView, error)
	List(ctx context.Context, userID string) ([]EstimateView, error)
	Update(ctx context.Context, id string, ownerUserID *string, input UpdateInput) (*EstimateView, error)
	Delete(ctx context.Context, id string, ownerUserID *string) (bool, error)
}

type service struct {
	repo      repository
	materials materialReader
	reference referenceReader
	now       func() time.Time
}

func NewService(repo repository, materials materialReader, reference referenceReader) (Service, error) {
	if repo == nil {
		return nil, errors.New("estimates: repository is required")
	}
	if materials == nil {
		return nil, errors.New("estimates: material reader is required")
	}
	if reference == nil {
		return nil, errors.New("estimates: reference reader is required")
	}
	return &service{repo: repo, materials: materials, reference: reference, now: time.Now}, nil
}

// CreatePaintingEstimate prices the job and persists the estimate with a
// single material line whose unit cost freezes at today's catalog price.
func (s *service) CreatePaintingEstimate(ctx context.Context, input PaintingInput) (*PaintingResult, error) {
	if input.UserID == "" || input.ClientID == "" || input.PaintMaterialID == "" || input.ProvinceWeightID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId, clientId, paintMaterialId and provinceWeightId are required")
	}

	additional, err := parseAdditionalCosts(input.AdditionalCosts)
	if err != nil {
		return nil, err
	}

	material, err := s.materials.Get(ctx, input.PaintMaterialID)
	if err != nil {
		return nil, err
	}
	province, err := s.reference.GetProvinceWeight(ctx, input.ProvinceWeightID)
	if err != nil {
		return nil, err
	}
	jobType, err := s.reference.GetJobTypeByName(ctx, paintingJobTypeName)
	if err != nil {
		return nil, err
	}

	quote, err := computePaintingQuote(input.SurfaceArea, material, province, additional)
	if err != nil {
		return nil, err
	}

	validUntil := s.now().Add(defaultValidity)
	if input.ValidUntil != nil {
		validUntil = *input.ValidUntil
	}

	row := &models.Estimate{
		UserID:           input.UserID,
		ClientID:         input.ClientID,
		JobTypeID:        jobType.JobTypeID,
		ProvinceWeightID: province.ProvinceWeightID,
		Costs:            quote.Breakdown,
		AdditionalCosts:  additional,
		Status:           enums.EstimateStatusDraft,
		Notes:            input.Notes,
		ValidUntil:       validUntil,
		TotalCost:        quote.Total,
	}
	line := LineInput{
		MaterialID:      material.MaterialID,
		Quantity:        decimal.NewFromInt(quote.CansNeeded),
		InitialUnitCost: material.Price,
		TotalCost:       quote.PaintCost,
	}

	created, err := s.repo.Create(ctx, row, []LineInput{line})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to create painting estimate")
	}

	return &PaintingResult{
		Estimate:  composeView(created),
		Breakdown: quote.Breakdown,
	}, nil
}

// CreateEstimate is the generic pre-priced path. References are verified in
// aggregate by the repository; no pricing is computed here.
func (s *service) CreateEstimate(ctx context.Context, input GenericInput) (*EstimateView, error) {
	if input.UserID == "" || input.ClientID == "" || input.JobTypeID == 0 || input.ProvinceWeightID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId, clientId, jobTypeId and provinceWeightId are required")
	}

	additional, err := parseAdditionalCosts(input.AdditionalCosts)
	if err != nil {
		return nil, err
	}

	status := enums.EstimateStatusDraft
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid estimate status")
		}
		status = *input.Status
	}

	validUntil := s.now().Add(defaultValidity)
	if input.ValidUntil != nil {
		validUntil = *input.ValidUntil
	}

	row := &models.Estimate{
		UserID:           input.UserID,
		ClientID:         input.ClientID,
		JobTypeID:        input.JobTypeID,
		ProvinceWeightID: input.ProvinceWeightID,
		Costs:            input.Costs,
		AdditionalCosts:  additional,
		Status:           status,
		Notes:            input.Notes,
		ValidUntil:       validUntil,
		TotalCost:        input.TotalCost,
	}
	lines := make([]LineInput, 0, len(input.Materials))
	for _, m := range input.Materials {
		lines = append(lines, LineInput{
			MaterialID:      m.MaterialID,
			Quantity:        m.Quantity,
			InitialUnitCost: m.UnitCost,
			TotalCost:       m.Quantity.Mul(m.UnitCost),
		})
	}

	created, err := s.repo.Create(ctx, row, lines)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to create estimate")
	}
	return composeView(created), nil
}

func (s *service) Get(ctx context.Context, id string, ownerUserID *string) (*EstimateView, error) {
	row, err := s.repo.FindByID(ctx, id, ownerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to load estimate")
	}
	return composeView(row), nil
}

func (s *service) List(ctx context.Context, userID string) ([]EstimateView, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to list estimates")
	}
	views := make([]EstimateView, 0, len(rows))
	for i := range rows {
		views = append(views, *composeView(&rows[i]))
	}
	return views, nil
}

func (s *service) Update(ctx context.Context, id string, ownerUserID *string, input UpdateInput) (*EstimateView, error) {
	// Ownership is checked by the scoped read; foreign rows read as missing.
	if _, err := s.Get(ctx, id, ownerUserID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid estimate status")
		}
		fields["status"] = *input.Status
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}
	if input.ValidUntil != nil {
		fields["valid_until"] = *input.ValidUntil
	}
	if len(fields) == 0 {
		return s.Get(ctx, id, ownerUserID)
	}

	affected, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to update estimate")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found")
	}
	return s.Get(ctx, id, ownerUserID)
}

func (s *service) Delete(ctx context.Context, id string, ownerUserID *string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id, ownerUserID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to delete estimate")
	}
	return deleted, nil
}
