package pricerefresh

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/bestimator/bestimator-backend/internal/materials"
	"github.com/bestimator/bestimator-backend/pkg/logger"
)

// JobName identifies the refresh job in logs and metrics.
const JobName = "material-price-refresh"

type catalog interface {
	ListTrackedProductIDs(ctx context.Context) ([]string, error)
	ApplyPriceUpdate(ctx context.Context, update materials.PriceUpdate) (materials.ApplyOutcome, error)
}

type fetcher interface {
	FetchPrices(ctx context.Context, productIDs []string) ([]ProductQuote, error)
}

// Job refreshes stored material prices from the external catalog. It lists
// every tracked product id, fetches current quotes, and applies them one by
// one so a single bad product cannot poison the rest of the run.
type Job struct {
	logg    *logger.Logger
	catalog catalog
	fetcher fetcher
}

func NewJob(logg *logger.Logger, catalog catalog, fetcher fetcher) (*Job, error) {
	if logg == nil {
		return nil, errors.New("pricerefresh: logger is required")
	}
	if catalog == nil {
		return nil, errors.New("pricerefresh: catalog is required")
	}
	if fetcher == nil {
		return nil, errors.New("pricerefresh: fetcher is required")
	}
	return &Job{logg: logg, catalog: catalog, fetcher: fetcher}, nil
}

func (j *Job) Name() string { return JobName }

func (j *Job) Run(ctx context.Context) error {
	ids, err := j.catalog.ListTrackedProductIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		j.logg.Info(ctx, "no tracked products; nothing to refresh")
		return nil
	}

	quotes, err := j.fetcher.FetchPrices(ctx, ids)
	if err != nil {
		return err
	}

	var applied, unchanged, skipped, missing int
	var lastErr error
	for _, quote := range quotes {
		if quote.ProductID == "" {
			skipped++
			continue
		}
		update := materials.PriceUpdate{
			ProductID:    string(quote.ProductID),
			RawPrice:     string(quote.Price),
			ProductTitle: quote.Title,
			ProductURL:   quote.Link,
			ImageURL:     quote.Thumbnails,
		}
		if rating, err := decimal.NewFromString(string(quote.Rating)); err == nil {
			update.Rating = &rating
		}

		outcome, err := j.catalog.ApplyPriceUpdate(ctx, update)
		if err != nil {
			lastErr = err
			j.logg.Error(j.logg.WithField(ctx, "product_id", update.ProductID), "failed to apply price update", err)
			continue
		}
		switch outcome {
		case materials.OutcomeApplied:
			applied++
		case materials.OutcomeUnchanged:
			unchanged++
		case materials.OutcomeSkipped:
			skipped++
		case materials.OutcomeNotFound:
			missing++
		}
	}

	summary := j.logg.WithFields(ctx, map[string]any{
		"tracked":   len(ids),
		"quotes":    len(quotes),
		"applied":   applied,
		"unchanged": unchanged,
		"skipped":   skipped,
		"missing":   missing,
	})
	j.logg.Info(summary, "price refresh finished")
	return lastErr
}
