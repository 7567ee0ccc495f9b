package pricerefresh

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bestimator/bestimator-backend/internal/materials"
	"github.com/bestimator/bestimator-backend/pkg/logger"
)

type stubCatalog struct {
	tracked  []string
	listErr  error
	applied  []materials.PriceUpdate
	outcomes map[string]materials.ApplyOutcome
	applyErr map[string]error
}

func (s *stubCatalog) ListTrackedProductIDs(context.Context) ([]string, error) {
	return s.tracked, s.listErr
}

func (s *stubCatalog) ApplyPriceUpdate(_ context.Context, update materials.PriceUpdate) (materials.ApplyOutcome, error) {
	if err := s.applyErr[update.ProductID]; err != nil {
		return materials.OutcomeSkipped, err
	}
	s.applied = append(s.applied, update)
	return s.outcomes[update.ProductID], nil
}

type stubFetcher struct {
	quotes []ProductQuote
	err    error
	gotIDs []string
}

func (s *stubFetcher) FetchPrices(_ context.Context, productIDs []string) ([]ProductQuote, error) {
	s.gotIDs = productIDs
	return s.quotes, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "pricerefresh-test"})
}

func mustRating(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", raw, err)
	}
	return d
}

func TestJobAppliesEveryQuote(t *testing.T) {
	cat := &stubCatalog{
		tracked: []string{"p1", "p2"},
		outcomes: map[string]materials.ApplyOutcome{
			"p1": materials.OutcomeApplied,
			"p2": materials.OutcomeUnchanged,
		},
	}
	fetch := &stubFetcher{quotes: []ProductQuote{
		{ProductID: "p1", Price: "19.99", Title: "Paint", Rating: "4.5"},
		{ProductID: "p2", Price: "12.00"},
	}}
	job, err := NewJob(testLogger(), cat, fetch)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(fetch.gotIDs) != 2 {
		t.Fatalf("expected fetch for both tracked ids, got %v", fetch.gotIDs)
	}
	if len(cat.applied) != 2 {
		t.Fatalf("expected 2 applies, got %d", len(cat.applied))
	}
	first := cat.applied[0]
	if first.ProductID != "p1" || first.RawPrice != "19.99" || first.ProductTitle != "Paint" {
		t.Fatalf("unexpected update: %+v", first)
	}
	if first.Rating == nil || !first.Rating.Equal(mustRating(t, "4.5")) {
		t.Fatalf("expected parsed rating, got %+v", first.Rating)
	}
}

func TestJobSkipsNothingWhenNoTrackedProducts(t *testing.T) {
	fetch := &stubFetcher{}
	job, _ := NewJob(testLogger(), &stubCatalog{}, fetch)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fetch.gotIDs != nil {
		t.Fatal("no fetch expected without tracked products")
	}
}

func TestJobContinuesPastApplyFailures(t *testing.T) {
	cat := &stubCatalog{
		tracked:  []string{"p1", "p2"},
		outcomes: map[string]materials.ApplyOutcome{"p2": materials.OutcomeApplied},
		applyErr: map[string]error{"p1": errors.New("db down")},
	}
	fetch := &stubFetcher{quotes: []ProductQuote{
		{ProductID: "p1", Price: "10.00"},
		{ProductID: "p2", Price: "11.00"},
	}}
	job, _ := NewJob(testLogger(), cat, fetch)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected the apply failure to surface")
	}
	if len(cat.applied) != 1 || cat.applied[0].ProductID != "p2" {
		t.Fatalf("later products must still apply, got %+v", cat.applied)
	}
}

func TestJobPropagatesFetchFailure(t *testing.T) {
	cat := &stubCatalog{tracked: []string{"p1"}}
	fetch := &stubFetcher{err: errors.New("catalog unreachable")}
	job, _ := NewJob(testLogger(), cat, fetch)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	if len(cat.applied) != 0 {
		t.Fatal("nothing should apply when the fetch fails")
	}
}
