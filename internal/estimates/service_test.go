package estimates

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	"github.com/bestimator/bestimator-backend/pkg/enums"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
)

type stubEstimateRepo struct {
	created      *models.Estimate
	createdLines []LineInput
	createErr    error

	byID       map[string]*models.Estimate
	updated    map[string]map[string]any
	updateRows int64
	deleted    bool
}

func newStubEstimateRepo() *stubEstimateRepo {
	return &stubEstimateRepo{
		byID:       map[string]*models.Estimate{},
		updated:    map[string]map[string]any{},
		updateRows: 1,
	}
}

func (s *stubEstimateRepo) Create(_ context.Context, row *models.Estimate, lines []LineInput) (*models.Estimate, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if row.EstimateID == "" {
		row.EstimateID = "est-1"
	}
	s.created = row
	s.createdLines = lines
	s.byID[row.EstimateID] = row
	return row, nil
}

func (s *stubEstimateRepo) FindByID(_ context.Context, id string, ownerUserID *string) (*models.Estimate, error) {
	row, ok := s.byID[id]
	if !ok || (ownerUserID != nil && row.UserID != *ownerUserID) {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubEstimateRepo) ListByUser(_ context.Context, userID string) ([]models.Estimate, error) {
	var out []models.Estimate
	for _, row := range s.byID {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *stubEstimateRepo) Update(_ context.Context, id string, fields map[string]any) (int64, error) {
	s.updated[id] = fields
	if row, ok := s.byID[id]; ok {
		if status, ok := fields["status"].(enums.EstimateStatus); ok {
			row.Status = status
		}
		if notes, ok := fields["notes"].(string); ok {
			row.Notes = notes
		}
	}
	return s.updateRows, nil
}

func (s *stubEstimateRepo) Delete(_ context.Context, id string, ownerUserID *string) (bool, error) {
	row, ok := s.byID[id]
	if !ok || (ownerUserID != nil && row.UserID != *ownerUserID) {
		return false, nil
	}
	delete(s.byID, id)
	s.deleted = true
	return true, nil
}

type stubMaterialReader struct {
	material *models.Material
	err      error
}

func (s *stubMaterialReader) Get(_ context.Context, id string) (*models.Material, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.material, nil
}

type stubReferenceReader struct {
	province    *models.ProvinceWeight
	provinceErr error
	jobType     *models.JobType
	jobTypeErr  error
}

func (s *stubReferenceReader) GetProvinceWeight(_ context.Context, id int) (*models.ProvinceWeight, error) {
	if s.provinceErr != nil {
		return nil, s.provinceErr
	}
	return s.province, nil
}

func (s *stubReferenceReader) GetJobTypeByName(_ context.Context, name string) (*models.JobType, error) {
	if s.jobTypeErr != nil {
		return nil, s.jobTypeErr
	}
	return s.jobType, nil
}

func paintingFixture(t *testing.T) (*stubEstimateRepo, *stubMaterialReader, *stubReferenceReader, Service) {
	t.Helper()

	repo := newStubEstimateRepo()
	coverage := dec(t, "400")
	materials := &stubMaterialReader{material: &models.Material{
		MaterialID: "mat-1",
		Name:       "Interior Eggshell 3.78L",
		Price:      dec(t, "45.97"),
		Coverage:   &coverage,
	}}
	reference := &stubReferenceReader{
		province: &models.ProvinceWeight{ProvinceWeightID: 1, Province: "Ontario", TaxRate: dec(t, "13.00")},
		jobType:  &models.JobType{JobTypeID: 1, Name: "Painting"},
	}
	svc, err := NewService(repo, materials, reference)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return repo, materials, reference, svc
}

func paintingInput(t *testing.T) PaintingInput {
	t.Helper()
	return PaintingInput{
		UserID:           "user_abc",
		ClientID:         "client-1",
		SurfaceArea:      dec(t, "100"),
		PaintMaterialID:  "mat-1",
		ProvinceWeightID: 1,
	}
}

func TestCreatePaintingEstimatePersistsFrozenLine(t *testing.T) {
	repo, _, _, svc := paintingFixture(t)

	result, err := svc.CreatePaintingEstimate(context.Background(), paintingInput(t))
	if err != nil {
		t.Fatalf("CreatePaintingEstimate: %v", err)
	}

	if !result.Breakdown.Total.Equal(dec(t, "51.95")) {
		t.Fatalf("expected total 51.95, got %s", result.Breakdown.Total)
	}
	if repo.created.Status != enums.EstimateStatusDraft {
		t.Fatalf("new estimates start as Draft, got %s", repo.created.Status)
	}
	if len(repo.createdLines) != 1 {
		t.Fatalf("expected one material line, got %d", len(repo.createdLines))
	}
	line := repo.createdLines[0]
	if line.MaterialID != "mat-1" {
		t.Fatalf("unexpected material id %q", line.MaterialID)
	}
	if !line.InitialUnitCost.Equal(dec(t, "45.97")) {
		t.Fatalf("line must freeze today's unit price, got %s", line.InitialUnitCost)
	}
	if !line.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected quantity 1 can, got %s", line.Quantity)
	}
}

func TestCreatePaintingEstimateDefaultsValidUntil(t *testing.T) {
	repo, _, _, svc := paintingFixture(t)

	before := time.Now()
	if _, err := svc.CreatePaintingEstimate(context.Background(), paintingInput(t)); err != nil {
		t.Fatalf("CreatePaintingEstimate: %v", err)
	}

	want := before.Add(30 * 24 * time.Hour)
	got := repo.created.ValidUntil
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Fatalf("expected valid_until about 30 days out, got %s", got)
	}

	explicit := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	input := paintingInput(t)
	input.ValidUntil = &explicit
	if _, err := svc.CreatePaintingEstimate(context.Background(), input); err != nil {
		t.Fatalf("CreatePaintingEstimate with valid_until: %v", err)
	}
	if !repo.created.ValidUntil.Equal(explicit) {
		t.Fatalf("explicit valid_until must win, got %s", repo.created.ValidUntil)
	}
}

func TestCreatePaintingEstimateMissingMaterial(t *testing.T) {
	_, materials, _, svc := paintingFixture(t)
	materials.err = pkgerrors.New(pkgerrors.CodeNotFound, "material not found")

	_, err := svc.CreatePaintingEstimate(context.Background(), paintingInput(t))
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreatePaintingEstimateMissingJobTypeIsHardFailure(t *testing.T) {
	_, _, reference, svc := paintingFixture(t)
	reference.jobTypeErr = pkgerrors.New(pkgerrors.CodeNotFound, "Painting job type not found")

	_, err := svc.CreatePaintingEstimate(context.Background(), paintingInput(t))
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for missing seeded job type, got %v", err)
	}
}

func TestCreatePaintingEstimateRequiredFields(t *testing.T) {
	_, _, _, svc := paintingFixture(t)

	input := paintingInput(t)
	input.ClientID = ""
	_, err := svc.CreatePaintingEstimate(context.Background(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateEstimatePassesReferenceErrorsThrough(t *testing.T) {
	repo, materials, reference, _ := paintingFixture(t)
	repo.createErr = pkgerrors.New(pkgerrors.CodeReference, "invalid references: client missing-client")
	svc, _ := NewService(repo, materials, reference)

	_, err := svc.CreateEstimate(context.Background(), GenericInput{
		UserID:           "user_abc",
		ClientID:         "missing-client",
		JobTypeID:        1,
		ProvinceWeightID: 1,
		TotalCost:        dec(t, "100"),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeReference) {
		t.Fatalf("expected reference error, got %v", err)
	}
}

func TestCreateEstimateComputesLineTotals(t *testing.T) {
	repo, _, _, svc := paintingFixture(t)

	_, err := svc.CreateEstimate(context.Background(), GenericInput{
		UserID:           "user_abc",
		ClientID:         "client-1",
		JobTypeID:        2,
		ProvinceWeightID: 1,
		TotalCost:        dec(t, "100"),
		Materials: []GenericLine{
			{MaterialID: "mat-9", Quantity: dec(t, "3"), UnitCost: dec(t, "12.50")},
		},
	})
	if err != nil {
		t.Fatalf("CreateEstimate: %v", err)
	}
	if len(repo.createdLines) != 1 {
		t.Fatalf("expected one line, got %d", len(repo.createdLines))
	}
	if !repo.createdLines[0].TotalCost.Equal(dec(t, "37.50")) {
		t.Fatalf("expected line total 37.50, got %s", repo.createdLines[0].TotalCost)
	}
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	repo, _, _, svc := paintingFixture(t)
	repo.byID["est-1"] = &models.Estimate{EstimateID: "est-1", UserID: "user_abc"}

	bad := enums.EstimateStatus("Binned")
	owner := "user_abc"
	_, err := svc.Update(context.Background(), "est-1", &owner, UpdateInput{Status: &bad})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateScopedToOwner(t *testing.T) {
	repo, _, _, svc := paintingFixture(t)
	repo.byID["est-1"] = &models.Estimate{EstimateID: "est-1", UserID: "user_abc"}

	other := "user_other"
	notes := "updated"
	_, err := svc.Update(context.Background(), "est-1", &other, UpdateInput{Notes: &notes})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("foreign update should read as not found, got %v", err)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("no write should have happened, got %v", repo.updated)
	}
}

func TestDeleteReturnsWhetherRowRemoved(t *testing.T) {
	repo, _, _, svc := paintingFixture(t)
	repo.byID["est-1"] = &models.Estimate{EstimateID: "est-1", UserID: "user_abc"}

	owner := "user_abc"
	deleted, err := svc.Delete(context.Background(), "est-1", &owner)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted true")
	}

	deleted, err = svc.Delete(context.Background(), "est-1", &owner)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Fatal("expected deleted false for missing row")
	}
}
