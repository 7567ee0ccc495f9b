package materials

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bestimator/bestimator-backend/pkg/db/models"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
)

type stubMaterialRepo struct {
	byID      map[string]*models.Material
	byProduct map[string][]*models.Material

	priceUpdates map[string]map[string]any
	updateRows   int64
	deleteRows   int64
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{
		byID:         map[string]*models.Material{},
		byProduct:    map[string][]*models.Material{},
		priceUpdates: map[string]map[string]any{},
	}
}

func (s *stubMaterialRepo) add(row *models.Material) {
	s.byID[row.MaterialID] = row
	if row.ProductID != nil {
		s.byProduct[*row.ProductID] = append(s.byProduct[*row.ProductID], row)
	}
}

func (s *stubMaterialRepo) Create(_ context.Context, row *models.Material) (*models.Material, error) {
	s.add(row)
	return row, nil
}

func (s *stubMaterialRepo) FindByID(_ context.Context, id string) (*models.Material, error) {
	row, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubMaterialRepo) FindByName(_ context.Context, name string) (*models.Material, error) {
	for _, row := range s.byID {
		if row.Name == name {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMaterialRepo) List(_ context.Context, jobTypeID *int) ([]models.Material, error) {
	var out []models.Material
	for _, row := range s.byID {
		if jobTypeID != nil && row.JobTypeID != *jobTypeID {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s *stubMaterialRepo) Update(_ context.Context, id string, fields map[string]any) (int64, error) {
	return s.updateRows, nil
}

func (s *stubMaterialRepo) Delete(_ context.Context, id string) (int64, error) {
	delete(s.byID, id)
	return s.deleteRows, nil
}

func (s *stubMaterialRepo) ListTrackedProductIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id := range s.byProduct {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubMaterialRepo) FindByProductID(_ context.Context, productID string) ([]models.Material, error) {
	var out []models.Material
	for _, row := range s.byProduct[productID] {
		out = append(out, *row)
	}
	return out, nil
}

func (s *stubMaterialRepo) UpdatePrice(_ context.Context, materialID string, fields map[string]any) (int64, error) {
	s.priceUpdates[materialID] = fields
	if row, ok := s.byID[materialID]; ok {
		if price, ok := fields["price"].(decimal.Decimal); ok {
			row.Price = price
		}
	}
	return 1, nil
}

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", raw, err)
	}
	return d
}

func TestCreateMaterialTruncatesPrice(t *testing.T) {
	repo := newStubMaterialRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	coverage := mustDecimal(t, "400")
	row, err := svc.Create(context.Background(), CreateInput{
		Name:      "Interior Eggshell 3.78L",
		JobTypeID: 1,
		UnitID:    2,
		Price:     mustDecimal(t, "45.979"),
		Coverage:  &coverage,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !row.Price.Equal(mustDecimal(t, "45.97")) {
		t.Fatalf("expected truncated price 45.97, got %s", row.Price)
	}
	if row.MaterialID == "" {
		t.Fatal("expected generated material id")
	}
}

func TestCreateMaterialValidation(t *testing.T) {
	svc, _ := NewService(newStubMaterialRepo())

	_, err := svc.Create(context.Background(), CreateInput{Name: " ", Price: mustDecimal(t, "1")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{Name: "Primer", Price: mustDecimal(t, "-1")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	zero := decimal.Zero
	_, err = svc.Create(context.Background(), CreateInput{Name: "Primer", Price: mustDecimal(t, "1"), Coverage: &zero})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero coverage, got %v", err)
	}
}

func TestApplyPriceUpdateTruncatesBeforeStoring(t *testing.T) {
	repo := newStubMaterialRepo()
	product := "1001143856"
	repo.add(&models.Material{MaterialID: "m1", ProductID: &product, Price: mustDecimal(t, "18.50")})
	svc, _ := NewService(repo)

	outcome, err := svc.ApplyPriceUpdate(context.Background(), PriceUpdate{ProductID: product, RawPrice: "19.999"})
	if err != nil {
		t.Fatalf("ApplyPriceUpdate: %v", err)
	}
	if outcome != OutcomeApplied {
		t.Fatalf("expected applied, got %v", outcome)
	}
	if !repo.byID["m1"].Price.Equal(mustDecimal(t, "19.99")) {
		t.Fatalf("expected stored price 19.99, got %s", repo.byID["m1"].Price)
	}
}

func TestApplyPriceUpdateIsIdempotent(t *testing.T) {
	repo := newStubMaterialRepo()
	product := "1001143856"
	repo.add(&models.Material{MaterialID: "m1", ProductID: &product, Price: mustDecimal(t, "19.99")})
	svc, _ := NewService(repo)

	update := PriceUpdate{ProductID: product, RawPrice: "19.995"}

	outcome, err := svc.ApplyPriceUpdate(context.Background(), update)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if outcome != OutcomeUnchanged {
		t.Fatalf("truncated 19.995 equals stored 19.99, expected unchanged, got %v", outcome)
	}
	if len(repo.priceUpdates) != 0 {
		t.Fatalf("expected no writes, got %v", repo.priceUpdates)
	}
}

func TestApplyPriceUpdateSkipsMalformedPrice(t *testing.T) {
	repo := newStubMaterialRepo()
	product := "1001143856"
	repo.add(&models.Material{MaterialID: "m1", ProductID: &product, Price: mustDecimal(t, "19.99")})
	svc, _ := NewService(repo)

	for _, raw := range []string{"", "n/a", "see store", "12.3.4"} {
		outcome, err := svc.ApplyPriceUpdate(context.Background(), PriceUpdate{ProductID: product, RawPrice: raw})
		if err != nil {
			t.Fatalf("apply %q: %v", raw, err)
		}
		if outcome != OutcomeSkipped {
			t.Fatalf("raw %q: expected skipped, got %v", raw, outcome)
		}
	}
	if len(repo.priceUpdates) != 0 {
		t.Fatalf("malformed prices must not write, got %v", repo.priceUpdates)
	}
}

func TestApplyPriceUpdateUnknownProduct(t *testing.T) {
	svc, _ := NewService(newStubMaterialRepo())
	outcome, err := svc.ApplyPriceUpdate(context.Background(), PriceUpdate{ProductID: "unknown", RawPrice: "10.00"})
	if err != nil {
		t.Fatalf("ApplyPriceUpdate: %v", err)
	}
	if outcome != OutcomeNotFound {
		t.Fatalf("expected not found, got %v", outcome)
	}
}

func TestApplyPriceUpdateCarriesCatalogFields(t *testing.T) {
	repo := newStubMaterialRepo()
	product := "1001143856"
	repo.add(&models.Material{MaterialID: "m1", ProductID: &product, Price: mustDecimal(t, "18.50")})
	svc, _ := NewService(repo)

	rating := mustDecimal(t, "4.5")
	_, err := svc.ApplyPriceUpdate(context.Background(), PriceUpdate{
		ProductID:    product,
		RawPrice:     "19.99",
		ProductTitle: "Premium Interior Paint",
		ProductURL:   "https://example.com/p/1001143856",
		ImageURL:     []string{"https://example.com/i/1.jpg"},
		Rating:       &rating,
	})
	if err != nil {
		t.Fatalf("ApplyPriceUpdate: %v", err)
	}

	fields := repo.priceUpdates["m1"]
	if fields["product_title"] != "Premium Interior Paint" {
		t.Fatalf("expected title write, got %v", fields)
	}
	if _, ok := fields["rating"]; !ok {
		t.Fatalf("expected rating write, got %v", fields)
	}
}

func TestDeleteMaterialMissingIsNotFound(t *testing.T) {
	repo := newStubMaterialRepo()
	repo.deleteRows = 0
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), "ghost")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
