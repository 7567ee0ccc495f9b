package pricerefresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bestimator/bestimator-backend/pkg/config"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
)

// flexString tolerates the catalog API emitting a field as either a JSON
// string or a bare number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// ProductQuote is one product row from the external catalog. Price stays
// textual; the apply path owns parsing and truncation.
type ProductQuote struct {
	ProductID  flexString `json:"product_id"`
	Price      flexString `json:"price"`
	Title      string     `json:"title"`
	Link       string     `json:"link"`
	Rating     flexString `json:"rating"`
	Thumbnails []string   `json:"thumbnails"`
}

type searchResponse struct {
	Products []ProductQuote `json:"products"`
}

// Client fetches current prices from the external product catalog. Requests
// carry up to BatchSize product ids each; the ids are joined into one search
// query scoped to a single store.
type Client struct {
	http      *http.Client
	apiURL    string
	apiKey    string
	storeID   string
	country   string
	batchSize int
}

func NewClient(cfg config.PriceRefreshConfig) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, errors.New("pricerefresh: api url is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("pricerefresh: api key is required")
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 40
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		apiURL:    cfg.APIURL,
		apiKey:    cfg.APIKey,
		storeID:   cfg.StoreID,
		country:   cfg.Country,
		batchSize: batchSize,
	}, nil
}

// FetchPrices retrieves quotes for every product id, issuing one request per
// batch. A failed batch fails the whole fetch; partial application is left
// to the caller's per-product apply loop.
func (c *Client) FetchPrices(ctx context.Context, productIDs []string) ([]ProductQuote, error) {
	var quotes []ProductQuote
	for start := 0; start < len(productIDs); start += c.batchSize {
		end := start + c.batchSize
		if end > len(productIDs) {
			end = len(productIDs)
		}
		batch, err := c.fetchBatch(ctx, productIDs[start:end])
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, batch...)
	}
	return quotes, nil
}

func (c *Client) fetchBatch(ctx context.Context, productIDs []string) ([]ProductQuote, error) {
	endpoint, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalid catalog api url")
	}
	query := endpoint.Query()
	query.Set("engine", "home_depot")
	if c.country != "" {
		query.Set("country", c.country)
	}
	query.Set("q", strings.Join(productIDs, " "))
	if c.storeID != "" {
		query.Set("store", c.storeID)
	}
	query.Set("api_key", c.apiKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog returned status %d", resp.StatusCode))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return parsed.Products, nil
}
